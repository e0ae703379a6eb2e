package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// ReceiptWatcher resolves transaction handles into terminal events by
// polling for the receipt. The poll runs until the transaction lands or the
// context is cancelled; there is deliberately no elapsed-time cutoff, since
// a submitted transaction has exactly one eventual outcome.
type ReceiptWatcher struct {
	client *ethclient.Client
	logger *zap.Logger

	pollInterval time.Duration
	maxInterval  time.Duration
}

// NewReceiptWatcher creates a watcher over the connector's client.
func NewReceiptWatcher(connector *Connector) *ReceiptWatcher {
	return &ReceiptWatcher{
		client:       connector.Client(),
		logger:       logger.Log,
		pollInterval: 2 * time.Second,
		maxInterval:  15 * time.Second,
	}
}

// Wait blocks until the transaction reaches a terminal state.
func (w *ReceiptWatcher) Wait(ctx context.Context, tx common.Hash) (ledger.TerminalEvent, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.pollInterval
	policy.MaxInterval = w.maxInterval
	policy.MaxElapsedTime = 0 // poll until resolution or cancellation

	var receipt *types.Receipt
	operation := func() error {
		r, err := w.client.TransactionReceipt(ctx, tx)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return fmt.Errorf("transaction not yet mined")
			}
			// Connectivity blips are retried like a pending receipt;
			// context cancellation ends the backoff loop.
			return err
		}
		receipt = r
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return ledger.TerminalEvent{}, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hex(), err)
	}

	event := ledger.TerminalEvent{
		BlockNumber: receipt.BlockNumber.Uint64(),
		FeeWei:      feeWei(receipt),
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		event.Confirmed = true
		w.logger.Info("Transaction confirmed",
			zap.String("tx_hash", tx.Hex()),
			zap.Uint64("block_number", event.BlockNumber),
			zap.String("fee_wei", event.FeeWei.String()))
	} else {
		event.Reason = "transaction reverted"
		w.logger.Warn("Transaction failed",
			zap.String("tx_hash", tx.Hex()),
			zap.Uint64("block_number", event.BlockNumber))
	}

	return event, nil
}

func feeWei(receipt *types.Receipt) *big.Int {
	if receipt.EffectiveGasPrice == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(
		new(big.Int).SetUint64(receipt.GasUsed),
		receipt.EffectiveGasPrice,
	)
}
