package ledger

import (
	"context"
	"encoding/binary"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/taxvault/taxvault-api/internal/commitment"
	"github.com/taxvault/taxvault-api/internal/constants"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// MemoryLedger is an in-process implementation of the contract semantics,
// used for tests and for running the service without a chain. It enforces
// exactly the rejections the deployed contract enforces and doubles as its
// own transaction watcher: every mutating call yields a synthetic handle
// that resolves as confirmed.
type MemoryLedger struct {
	mu       sync.Mutex
	records  map[common.Address]*TaxRecord
	events   map[common.Hash]TerminalEvent
	owner    common.Address
	deployed int64
	seq      uint64

	// now is swappable so tests can control record timestamps.
	now func() int64

	logger *zap.Logger
}

// NewMemoryLedger creates a memory ledger owned by the given address.
func NewMemoryLedger(owner common.Address) *MemoryLedger {
	return &MemoryLedger{
		records:  make(map[common.Address]*TaxRecord),
		events:   make(map[common.Hash]TerminalEvent),
		owner:    owner,
		deployed: time.Now().Unix(),
		now:      func() int64 { return time.Now().Unix() },
		logger:   logger.Log,
	}
}

// SetClock overrides the ledger clock. Test hook.
func (l *MemoryLedger) SetClock(now func() int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Submit creates the account's tax record.
func (l *MemoryLedger) Submit(ctx context.Context, account common.Address, income commitment.Commitment, incomeProof []byte, deductions commitment.Commitment, deductionsProof []byte) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(incomeProof) == 0 || len(deductionsProof) == 0 {
		return common.Hash{}, ErrEmptyProof
	}
	if _, exists := l.records[account]; exists {
		return common.Hash{}, ErrAlreadySubmitted
	}

	l.records[account] = &TaxRecord{
		IncomeCommitment:     income,
		DeductionsCommitment: deductions,
		SubmittedAt:          l.now(),
	}

	l.logger.Debug("Memory ledger accepted submission",
		zap.String("account", account.Hex()))

	return l.confirm(account, "submitTaxInfo"), nil
}

// Calculate populates the tax-owed commitment. The "homomorphic evaluation"
// is simulated: the result commitment is derived from the two input
// commitments and the calculation time, never from plaintext.
func (l *MemoryLedger) Calculate(ctx context.Context, account common.Address) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.records[account]
	if !exists {
		return common.Hash{}, ErrNotSubmitted
	}
	if record.Calculated {
		return common.Hash{}, ErrAlreadyCalculated
	}

	calculatedAt := l.now()
	preimage := append(record.IncomeCommitment.Bytes(), record.DeductionsCommitment.Bytes()...)
	preimage = append(preimage, commitment.TimestampNonce(calculatedAt)...)
	copy(record.TaxOwedCommitment[:], crypto.Keccak256(preimage))

	record.Calculated = true
	record.CalculatedAt = calculatedAt

	return l.confirm(account, "calculateTax"), nil
}

// Clear destroys the account's record entirely.
func (l *MemoryLedger) Clear(ctx context.Context, account common.Address) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[account]; !exists {
		return common.Hash{}, ErrNotSubmitted
	}
	delete(l.records, account)

	return l.confirm(account, "clearTaxRecord"), nil
}

// TaxOwed returns the tax-owed commitment once calculated.
func (l *MemoryLedger) TaxOwed(ctx context.Context, account common.Address) (commitment.Commitment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.records[account]
	if !exists {
		return commitment.Zero, ErrNotSubmitted
	}
	if !record.Calculated {
		return commitment.Zero, ErrNotCalculated
	}
	return record.TaxOwedCommitment, nil
}

// HasSubmitted reports whether a record exists for the account.
func (l *MemoryLedger) HasSubmitted(ctx context.Context, account common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, exists := l.records[account]
	return exists, nil
}

// IsCalculated reports whether the account's record has been calculated.
func (l *MemoryLedger) IsCalculated(ctx context.Context, account common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.records[account]
	return exists && record.Calculated, nil
}

// SubmissionTime returns the record's creation time, 0 if no record exists.
func (l *MemoryLedger) SubmissionTime(ctx context.Context, account common.Address) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.records[account]
	if !exists {
		return 0, nil
	}
	return record.SubmittedAt, nil
}

// CalculationTime returns the record's calculation time, 0 until calculated.
func (l *MemoryLedger) CalculationTime(ctx context.Context, account common.Address) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.records[account]
	if !exists {
		return 0, nil
	}
	return record.CalculatedAt, nil
}

// Stats returns the ledger-wide summary.
func (l *MemoryLedger) Stats(ctx context.Context) (Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		TotalAccounts: int64(len(l.records)),
		DeployedAt:    l.deployed,
		Owner:         l.owner,
		Version:       constants.ContractVersion,
	}, nil
}

// Wait resolves a synthetic transaction handle. Handles confirm immediately
// since the memory ledger applies state synchronously.
func (l *MemoryLedger) Wait(ctx context.Context, tx common.Hash) (TerminalEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event, ok := l.events[tx]
	if !ok {
		return TerminalEvent{Confirmed: false, Reason: "unknown transaction"}, nil
	}
	return event, nil
}

// confirm mints a synthetic handle and records its terminal event.
// Caller must hold l.mu.
func (l *MemoryLedger) confirm(account common.Address, op string) common.Hash {
	l.seq++
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], l.seq)

	handle := common.BytesToHash(crypto.Keccak256(account.Bytes(), []byte(op), seq[:]))
	l.events[handle] = TerminalEvent{
		Confirmed:   true,
		BlockNumber: l.seq,
		FeeWei:      big.NewInt(0),
	}
	return handle
}
