// Package chain binds the TaxVault ledger to a deployed EVM contract over
// JSON-RPC: a connector wrapping ethclient, a bound contract implementing
// ledger.Ledger, a receipt watcher producing terminal events, and the single
// boundary where connector failures are classified into the error taxonomy.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// Connector holds the RPC client and the operator identity used to sign
// mutating calls. It is the Go-side stand-in for the original wallet
// extension: the account set is fixed at construction and the chain cannot
// be switched on a remote node, only verified.
type Connector struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	account common.Address
	chainID *big.Int
	logger  *zap.Logger
}

// NewConnector dials the RPC endpoint and loads the operator key.
func NewConnector(rpcURL, operatorKeyHex string, chainID int64) (*Connector, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	key, err := crypto.HexToECDSA(operatorKeyHex)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to parse operator key: %w", err)
	}

	c := &Connector{
		client:  client,
		key:     key,
		account: crypto.PubkeyToAddress(key.PublicKey),
		chainID: big.NewInt(chainID),
		logger:  logger.Log,
	}

	c.logger.Info("Connected to RPC endpoint",
		zap.String("account", c.account.Hex()),
		zap.Int64("chain_id", chainID))

	return c, nil
}

// Account returns the single operator account identity.
func (c *Connector) Account() common.Address {
	return c.account
}

// ChainID returns the chain ID reported by the connected endpoint.
func (c *Connector) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id, nil
}

// EnsureChain verifies the endpoint serves the configured chain. A backend
// cannot ask a remote node to switch networks the way a wallet extension
// can, so a mismatch is an error the operator must fix.
func (c *Connector) EnsureChain(ctx context.Context) error {
	id, err := c.ChainID(ctx)
	if err != nil {
		return err
	}
	if id.Cmp(c.chainID) != 0 {
		return fmt.Errorf("endpoint serves chain %s, configured for chain %s", id, c.chainID)
	}
	return nil
}

// TransactOpts builds signing options for a mutating call.
func (c *Connector) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// Client exposes the underlying RPC client for the watcher.
func (c *Connector) Client() *ethclient.Client {
	return c.client
}

// Close releases the RPC connection.
func (c *Connector) Close() {
	c.client.Close()
	c.logger.Info("Closed RPC connection",
		zap.String("account", c.account.Hex()))
}
