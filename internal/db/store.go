package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SubmissionStore adapts the generated queries to the advisory cache the
// lifecycle coordinator consumes. The cache is display-only: a miss is not
// an error, and nothing here participates in lifecycle decisions.
type SubmissionStore struct {
	queries Querier
}

// NewSubmissionStore creates a store over the given queries.
func NewSubmissionStore(queries Querier) *SubmissionStore {
	return &SubmissionStore{queries: queries}
}

// Save overwrites the account's cached submission wholesale.
func (s *SubmissionStore) Save(ctx context.Context, account common.Address, income, deductions int64) error {
	_, err := s.queries.UpsertSubmissionCache(ctx, UpsertSubmissionCacheParams{
		AccountAddress: account.Hex(),
		Income:         income,
		Deductions:     deductions,
		SubmittedAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to save submission cache: %w", err)
	}
	return nil
}

// Get returns the cached pair for the account; ok is false on a miss.
func (s *SubmissionStore) Get(ctx context.Context, account common.Address) (income, deductions int64, ok bool, err error) {
	cached, err := s.queries.GetSubmissionCache(ctx, account.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("failed to read submission cache: %w", err)
	}
	return cached.Income, cached.Deductions, true, nil
}
