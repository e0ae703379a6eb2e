// Package taxerrors defines the failure taxonomy surfaced to callers of the
// lifecycle coordinator. Every ledger-call failure is classified exactly once
// at the connector boundary and reported as one of these kinds; nothing is
// retried automatically.
package taxerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a coordinator failure.
type Kind string

const (
	// KindUserDeclined means the account holder rejected a confirmation.
	KindUserDeclined Kind = "user_declined"
	// KindResourceExhausted means funds were insufficient to cover the
	// operation's cost.
	KindResourceExhausted Kind = "resource_exhausted"
	// KindAlreadyPending means a conflicting request is already outstanding.
	KindAlreadyPending Kind = "already_pending"
	// KindInvalidState means the ledger (or the coordinator's own guard)
	// rejected the call because the account is not in the required
	// lifecycle state.
	KindInvalidState Kind = "invalid_state"
	// KindInvalidInput is a client-only category for precondition
	// violations caught before any ledger call is made.
	KindInvalidInput Kind = "invalid_input"
	// KindConnectivity means the chain or network was unreachable.
	KindConnectivity Kind = "connectivity"
	// KindUnknown covers everything else.
	KindUnknown Kind = "unknown"
)

// Error is a classified coordinator failure. It carries a single
// human-readable message alongside the kind and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the kind from an error chain, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
