package taxerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "classified error",
			err:      New(KindInvalidState, "cannot calculate while not_submitted"),
			expected: KindInvalidState,
		},
		{
			name:     "wrapped classified error",
			err:      fmt.Errorf("dispatch failed: %w", New(KindAlreadyPending, "submit in flight")),
			expected: KindAlreadyPending,
		},
		{
			name:     "unclassified error",
			err:      errors.New("something broke"),
			expected: KindUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindConnectivity, "failed to reach node", cause)

	assert.Equal(t, KindConnectivity, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to reach node")
}

func TestIsKind(t *testing.T) {
	err := New(KindUserDeclined, "request rejected in wallet")

	assert.True(t, IsKind(err, KindUserDeclined))
	assert.False(t, IsKind(err, KindConnectivity))
	assert.False(t, IsKind(errors.New("plain"), KindUserDeclined))
}
