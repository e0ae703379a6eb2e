// Package ledger defines the TaxVault ledger contract surface: one tax
// record per account, progressing strictly from submitted to calculated
// until an explicit clear destroys the record. The ledger is the final
// authority on lifecycle state; clients treat it as a read-through store.
package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/taxvault/taxvault-api/internal/commitment"
)

// Typed rejections mirrored from the contract's revert conditions.
var (
	ErrAlreadySubmitted  = errors.New("tax record already exists for account")
	ErrNotSubmitted      = errors.New("no tax record exists for account")
	ErrAlreadyCalculated = errors.New("tax already calculated for account")
	ErrNotCalculated     = errors.New("tax not yet calculated for account")
	ErrEmptyProof        = errors.New("proof must not be empty")
)

// TaxRecord is the per-account record owned exclusively by the ledger.
// Calculated == true implies CalculatedAt > 0 and a non-zero
// TaxOwedCommitment.
type TaxRecord struct {
	IncomeCommitment     commitment.Commitment
	DeductionsCommitment commitment.Commitment
	TaxOwedCommitment    commitment.Commitment
	Calculated           bool
	SubmittedAt          int64
	CalculatedAt         int64
}

// Stats is the ledger-wide summary exposed by the contract.
type Stats struct {
	TotalAccounts int64
	DeployedAt    int64
	Owner         common.Address
	Version       string
}

// TerminalEvent is the single confirmed/failed outcome of a mutating
// ledger call. A mutating call is not complete until its terminal event
// arrives.
type TerminalEvent struct {
	Confirmed   bool
	BlockNumber uint64
	FeeWei      *big.Int
	Reason      string
}

// Ledger is the contract interface consumed by the lifecycle coordinator.
// Mutating operations return a transaction handle whose outcome must be
// awaited through a Watcher; reads are always available and may be stale
// by one round trip.
type Ledger interface {
	// Submit creates the account's tax record. Fails with
	// ErrAlreadySubmitted if a record exists, ErrEmptyProof if either
	// proof is empty.
	Submit(ctx context.Context, account common.Address, income commitment.Commitment, incomeProof []byte, deductions commitment.Commitment, deductionsProof []byte) (common.Hash, error)

	// Calculate populates the tax-owed commitment. Fails with
	// ErrNotSubmitted or ErrAlreadyCalculated.
	Calculate(ctx context.Context, account common.Address) (common.Hash, error)

	// Clear destroys the account's record. Fails with ErrNotSubmitted.
	Clear(ctx context.Context, account common.Address) (common.Hash, error)

	// TaxOwed returns the tax-owed commitment. Fails with
	// ErrNotSubmitted or ErrNotCalculated.
	TaxOwed(ctx context.Context, account common.Address) (commitment.Commitment, error)

	HasSubmitted(ctx context.Context, account common.Address) (bool, error)
	IsCalculated(ctx context.Context, account common.Address) (bool, error)
	SubmissionTime(ctx context.Context, account common.Address) (int64, error)
	CalculationTime(ctx context.Context, account common.Address) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}

// Watcher resolves a transaction handle into its terminal event. There is
// no timeout-based cancellation; the wait ends only when the underlying
// call resolves or the context is cancelled.
type Watcher interface {
	Wait(ctx context.Context, tx common.Hash) (TerminalEvent, error)
}
