// Package coordinator implements the taxpayer lifecycle: deriving the legal
// next action from the ledger's two authoritative booleans and dispatching
// submit, calculate, view and clear against the ledger. The coordinator
// validates transitions before dispatch as defense in depth, but the ledger
// remains the final authority and its rejections are always handled.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/taxvault/taxvault-api/internal/chain"
	"github.com/taxvault/taxvault-api/internal/commitment"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"github.com/taxvault/taxvault-api/internal/taxengine"
	"github.com/taxvault/taxvault-api/internal/taxerrors"
	"go.uber.org/zap"
)

// Proof payloads accompanying commitments. The contract only checks
// non-emptiness; these are arbitrary UTF-8 stand-ins, not real proofs.
var (
	incomeProof     = []byte("taxvault income attestation v1")
	deductionsProof = []byte("taxvault deductions attestation v1")
)

// Session is the explicit connection context a coordinator operates under,
// constructed on connect and torn down on disconnect.
type Session struct {
	ID        uuid.UUID
	Account   common.Address
	CreatedAt time.Time
}

// NewSession creates a session bound to the given account.
func NewSession(account common.Address) Session {
	return Session{
		ID:        uuid.New(),
		Account:   account,
		CreatedAt: time.Now(),
	}
}

// ConnectorChange is an account or chain change notification from the
// wallet/chain connector. Either field may be nil.
type ConnectorChange struct {
	Account *common.Address
	ChainID *int64
}

// Coordinator drives the lifecycle for one session. It caches no
// authoritative state: every decision re-reads the ledger booleans, so a
// concurrent actor on the same account (a second session, another client)
// is always observed.
type Coordinator struct {
	ledger  ledger.Ledger
	watcher ledger.Watcher
	engine  *taxengine.Engine
	cache   SubmissionCache
	logger  *zap.Logger

	mu       sync.Mutex
	session  Session
	inflight map[Action]bool
}

// New creates a coordinator for the session.
func New(session Session, l ledger.Ledger, w ledger.Watcher, cache SubmissionCache) *Coordinator {
	return &Coordinator{
		ledger:   l,
		watcher:  w,
		engine:   taxengine.NewEngine(),
		cache:    cache,
		logger:   logger.Log,
		session:  session,
		inflight: make(map[Action]bool),
	}
}

// Session returns the current session.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// StatusReport is a fresh read of the account's lifecycle position.
type StatusReport struct {
	Account      string   `json:"account"`
	State        State    `json:"state"`
	HasSubmitted bool     `json:"has_submitted"`
	IsCalculated bool     `json:"is_calculated"`
	SubmittedAt  int64    `json:"submitted_at,omitempty"`
	CalculatedAt int64    `json:"calculated_at,omitempty"`
	LegalActions []Action `json:"legal_actions"`
}

// MutationReceipt reports the terminal event of a successful mutating call
// together with the re-read status.
type MutationReceipt struct {
	TxHash      string        `json:"tx_hash"`
	BlockNumber uint64        `json:"block_number"`
	FeeWei      string        `json:"fee_wei"`
	Status      *StatusReport `json:"status"`
}

// ViewReport is the result of viewing a calculated record. When the
// advisory cache has no plaintext pair for the account the breakdown fields
// are absent and BreakdownAvailable is false; this is the documented
// degraded mode, not an error.
type ViewReport struct {
	TaxOwedCommitment  string                  `json:"tax_owed_commitment"`
	CalculatedAt       int64                   `json:"calculated_at"`
	BreakdownAvailable bool                    `json:"breakdown_available"`
	Income             int64                   `json:"income,omitempty"`
	Deductions         int64                   `json:"deductions,omitempty"`
	TaxableIncome      int64                   `json:"taxable_income,omitempty"`
	TaxOwed            int64                   `json:"tax_owed,omitempty"`
	MarginalRate       int64                   `json:"marginal_rate,omitempty"`
	Breakdown          []taxengine.BracketLine `json:"breakdown,omitempty"`
}

// Status re-reads the authoritative booleans and derives the lifecycle
// state. Reads run concurrently with outstanding writes and may be stale by
// one round trip.
func (c *Coordinator) Status(ctx context.Context) (*StatusReport, error) {
	account := c.Session().Account

	hasSubmitted, err := c.ledger.HasSubmitted(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(fmt.Errorf("failed to read submission flag: %w", err))
	}
	isCalculated, err := c.ledger.IsCalculated(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(fmt.Errorf("failed to read calculation flag: %w", err))
	}

	if isCalculated && !hasSubmitted {
		// The contract cannot produce this pair; log and fall back.
		c.logger.Warn("Ledger reported calculated without submission",
			zap.String("account", account.Hex()))
	}

	state := DeriveState(hasSubmitted, isCalculated)
	report := &StatusReport{
		Account:      account.Hex(),
		State:        state,
		HasSubmitted: hasSubmitted,
		IsCalculated: isCalculated,
		LegalActions: state.LegalActions(),
	}

	if hasSubmitted {
		if report.SubmittedAt, err = c.ledger.SubmissionTime(ctx, account); err != nil {
			return nil, chain.ClassifyError(fmt.Errorf("failed to read submission time: %w", err))
		}
	}
	if isCalculated {
		if report.CalculatedAt, err = c.ledger.CalculationTime(ctx, account); err != nil {
			return nil, chain.ClassifyError(fmt.Errorf("failed to read calculation time: %w", err))
		}
	}

	return report, nil
}

// Submit commits the income and deductions pair to the ledger, creating the
// account's tax record.
func (c *Coordinator) Submit(ctx context.Context, income, deductions int64) (*MutationReceipt, error) {
	if income < 0 {
		return nil, taxerrors.New(taxerrors.KindInvalidInput, "income must not be negative")
	}
	if deductions < 0 {
		return nil, taxerrors.New(taxerrors.KindInvalidInput, "deductions must not be negative")
	}
	if deductions > income {
		return nil, taxerrors.New(taxerrors.KindInvalidInput, "deductions must not exceed income")
	}

	release, err := c.beginOp(ActionSubmit)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireState(ctx, ActionSubmit); err != nil {
		return nil, err
	}

	account := c.Session().Account
	nonce := commitment.TimestampNonce(time.Now().Unix())

	handle, err := c.ledger.Submit(ctx, account,
		commitment.Commit(income, nonce), incomeProof,
		commitment.Commit(deductions, nonce), deductionsProof)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}

	receipt, err := c.await(ctx, ActionSubmit, handle)
	if err != nil {
		return nil, err
	}

	// Advisory only: a cache failure must not fail the submission.
	if err := c.cache.Save(ctx, account, income, deductions); err != nil {
		c.logger.Warn("Failed to cache submitted values for display",
			zap.String("account", account.Hex()),
			zap.Error(err))
	}

	c.logger.Info("Tax info submitted",
		zap.String("account", account.Hex()),
		zap.String("tx_hash", receipt.TxHash))

	return receipt, nil
}

// CalculateTax asks the ledger to populate the tax-owed commitment.
func (c *Coordinator) CalculateTax(ctx context.Context) (*MutationReceipt, error) {
	release, err := c.beginOp(ActionCalculate)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireState(ctx, ActionCalculate); err != nil {
		return nil, err
	}

	account := c.Session().Account
	handle, err := c.ledger.Calculate(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}

	receipt, err := c.await(ctx, ActionCalculate, handle)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Tax calculated",
		zap.String("account", account.Hex()),
		zap.String("tx_hash", receipt.TxHash))

	return receipt, nil
}

// ViewResult reads the calculated record. The on-chain commitment cannot be
// opened, so the human-readable breakdown is reconstructed from the
// advisory cache when available.
func (c *Coordinator) ViewResult(ctx context.Context) (*ViewReport, error) {
	if err := c.requireState(ctx, ActionView); err != nil {
		return nil, err
	}

	account := c.Session().Account

	owed, err := c.ledger.TaxOwed(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}
	calculatedAt, err := c.ledger.CalculationTime(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}

	report := &ViewReport{
		TaxOwedCommitment: owed.Hex(),
		CalculatedAt:      calculatedAt,
	}

	income, deductions, ok, err := c.cache.Get(ctx, account)
	if err != nil {
		c.logger.Warn("Failed to read submission cache, degrading view",
			zap.String("account", account.Hex()),
			zap.Error(err))
		return report, nil
	}
	if !ok {
		c.logger.Info("No cached submission for account, view degraded to completion only",
			zap.String("account", account.Hex()))
		return report, nil
	}

	report.BreakdownAvailable = true
	report.Income = income
	report.Deductions = deductions
	report.TaxableIncome = c.engine.TaxableIncome(income, deductions)
	report.TaxOwed = c.engine.Calculate(income, deductions)
	report.MarginalRate = c.engine.MarginalRate(income, deductions)
	report.Breakdown = c.engine.Breakdown(income, deductions)

	return report, nil
}

// Clear destroys the account's record, returning the lifecycle to
// NotSubmitted. The advisory cache is deliberately left in place.
func (c *Coordinator) Clear(ctx context.Context) (*MutationReceipt, error) {
	release, err := c.beginOp(ActionClear)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireState(ctx, ActionClear); err != nil {
		return nil, err
	}

	account := c.Session().Account
	handle, err := c.ledger.Clear(ctx, account)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}

	receipt, err := c.await(ctx, ActionClear, handle)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Tax record cleared",
		zap.String("account", account.Hex()),
		zap.String("tx_hash", receipt.TxHash))

	return receipt, nil
}

// Stats reads the ledger-wide summary.
func (c *Coordinator) Stats(ctx context.Context) (ledger.Stats, error) {
	stats, err := c.ledger.Stats(ctx)
	if err != nil {
		return ledger.Stats{}, chain.ClassifyError(err)
	}
	return stats, nil
}

// Run consumes connector change notifications until the context ends. Any
// account or chain change forces a fresh status read; cached display state
// is never trusted across a change.
func (c *Coordinator) Run(ctx context.Context, changes <-chan ConnectorChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, open := <-changes:
			if !open {
				return
			}
			c.applyChange(ctx, change)
		}
	}
}

func (c *Coordinator) applyChange(ctx context.Context, change ConnectorChange) {
	if change.Account != nil {
		c.mu.Lock()
		c.session.Account = *change.Account
		c.mu.Unlock()
		c.logger.Info("Connector account changed, rebinding session",
			zap.String("account", change.Account.Hex()))
	}
	if change.ChainID != nil {
		c.logger.Info("Connector chain changed",
			zap.Int64("chain_id", *change.ChainID))
	}

	status, err := c.Status(ctx)
	if err != nil {
		c.logger.Error("Failed to refresh status after connector change",
			zap.Error(err))
		return
	}
	c.logger.Info("Refreshed lifecycle state after connector change",
		zap.String("account", status.Account),
		zap.String("state", string(status.State)))
}

// requireState re-reads authoritative state and refuses illegal dispatch.
func (c *Coordinator) requireState(ctx context.Context, action Action) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if !status.State.Allows(action) {
		return taxerrors.New(taxerrors.KindInvalidState,
			fmt.Sprintf("cannot %s while %s", action, status.State))
	}
	return nil
}

// await blocks on the terminal event for a mutating call, then re-reads the
// authoritative booleans. State is never inferred from the call's own
// success: a concurrent actor on the same account could have moved it.
func (c *Coordinator) await(ctx context.Context, action Action, handle common.Hash) (*MutationReceipt, error) {
	event, err := c.watcher.Wait(ctx, handle)
	if err != nil {
		return nil, chain.ClassifyError(err)
	}
	if !event.Confirmed {
		return nil, chain.ClassifyError(fmt.Errorf("%s transaction failed: %s", action, event.Reason))
	}

	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &MutationReceipt{
		TxHash:      handle.Hex(),
		BlockNumber: event.BlockNumber,
		Status:      status,
	}
	if event.FeeWei != nil {
		receipt.FeeWei = event.FeeWei.String()
	}
	return receipt, nil
}

// beginOp acquires the in-flight guard for the action. The guard is keyed
// by operation name; the ledger serializes conflicting writes per account,
// so no broader locking is needed.
func (c *Coordinator) beginOp(action Action) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[action] {
		return nil, taxerrors.New(taxerrors.KindAlreadyPending,
			fmt.Sprintf("a %s request is already in flight", action))
	}
	c.inflight[action] = true

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.inflight, action)
	}, nil
}
