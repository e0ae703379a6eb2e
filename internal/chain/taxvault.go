package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/taxvault/taxvault-api/internal/commitment"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// taxVaultABI mirrors the deployed TaxVault contract surface.
const taxVaultABI = `[
	{"type":"function","name":"submitTaxInfo","stateMutability":"nonpayable","inputs":[{"name":"encryptedIncome","type":"bytes32"},{"name":"incomeProof","type":"bytes"},{"name":"encryptedDeductions","type":"bytes32"},{"name":"deductionsProof","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"calculateTax","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"clearTaxRecord","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"getTaxOwed","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"hasSubmitted","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isCalculated","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getSubmissionTime","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getCalculationTime","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getContractStats","stateMutability":"view","inputs":[],"outputs":[{"name":"totalAccounts","type":"uint256"},{"name":"deployedAt","type":"uint256"},{"name":"owner","type":"address"},{"name":"version","type":"string"}]}
]`

// TaxVault implements ledger.Ledger against the deployed contract. All
// mutating calls are signed by the connector's operator key; the contract
// keys records by msg.sender, so the account passed in must match the
// operator account.
type TaxVault struct {
	connector *Connector
	contract  *bind.BoundContract
	address   common.Address
	logger    *zap.Logger
}

// NewTaxVault binds the contract at the given address.
func NewTaxVault(connector *Connector, contractAddress string) (*TaxVault, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(taxVaultABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	address := common.HexToAddress(contractAddress)
	client := connector.Client()

	return &TaxVault{
		connector: connector,
		contract:  bind.NewBoundContract(address, parsed, client, client, client),
		address:   address,
		logger:    logger.Log,
	}, nil
}

// Submit sends submitTaxInfo for the operator account.
func (v *TaxVault) Submit(ctx context.Context, account common.Address, income commitment.Commitment, incomeProof []byte, deductions commitment.Commitment, deductionsProof []byte) (common.Hash, error) {
	if err := v.checkAccount(account); err != nil {
		return common.Hash{}, err
	}

	opts, err := v.connector.TransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := v.contract.Transact(opts, "submitTaxInfo",
		[32]byte(income), incomeProof, [32]byte(deductions), deductionsProof)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit tax info: %w", err)
	}

	v.logger.Info("Submitted tax info transaction",
		zap.String("account", account.Hex()),
		zap.String("tx_hash", tx.Hash().Hex()))

	return tx.Hash(), nil
}

// Calculate sends calculateTax for the operator account.
func (v *TaxVault) Calculate(ctx context.Context, account common.Address) (common.Hash, error) {
	if err := v.checkAccount(account); err != nil {
		return common.Hash{}, err
	}

	opts, err := v.connector.TransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := v.contract.Transact(opts, "calculateTax")
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to calculate tax: %w", err)
	}

	return tx.Hash(), nil
}

// Clear sends clearTaxRecord for the operator account.
func (v *TaxVault) Clear(ctx context.Context, account common.Address) (common.Hash, error) {
	if err := v.checkAccount(account); err != nil {
		return common.Hash{}, err
	}

	opts, err := v.connector.TransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := v.contract.Transact(opts, "clearTaxRecord")
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to clear tax record: %w", err)
	}

	return tx.Hash(), nil
}

// TaxOwed reads getTaxOwed as the given account.
func (v *TaxVault) TaxOwed(ctx context.Context, account common.Address) (commitment.Commitment, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx, From: account}

	if err := v.contract.Call(opts, &out, "getTaxOwed"); err != nil {
		return commitment.Zero, fmt.Errorf("failed to get tax owed: %w", err)
	}

	raw, ok := out[0].([32]byte)
	if !ok {
		return commitment.Zero, fmt.Errorf("unexpected getTaxOwed result type %T", out[0])
	}
	return commitment.Commitment(raw), nil
}

// HasSubmitted reads hasSubmitted(account).
func (v *TaxVault) HasSubmitted(ctx context.Context, account common.Address) (bool, error) {
	return v.callBool(ctx, "hasSubmitted", account)
}

// IsCalculated reads isCalculated(account).
func (v *TaxVault) IsCalculated(ctx context.Context, account common.Address) (bool, error) {
	return v.callBool(ctx, "isCalculated", account)
}

// SubmissionTime reads getSubmissionTime(account).
func (v *TaxVault) SubmissionTime(ctx context.Context, account common.Address) (int64, error) {
	return v.callTime(ctx, "getSubmissionTime", account)
}

// CalculationTime reads getCalculationTime(account).
func (v *TaxVault) CalculationTime(ctx context.Context, account common.Address) (int64, error) {
	return v.callTime(ctx, "getCalculationTime", account)
}

// Stats reads getContractStats.
func (v *TaxVault) Stats(ctx context.Context) (ledger.Stats, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}

	if err := v.contract.Call(opts, &out, "getContractStats"); err != nil {
		return ledger.Stats{}, fmt.Errorf("failed to get contract stats: %w", err)
	}
	if len(out) != 4 {
		return ledger.Stats{}, fmt.Errorf("unexpected getContractStats result arity %d", len(out))
	}

	totalAccounts, ok := out[0].(*big.Int)
	if !ok {
		return ledger.Stats{}, fmt.Errorf("unexpected totalAccounts type %T", out[0])
	}
	deployedAt, ok := out[1].(*big.Int)
	if !ok {
		return ledger.Stats{}, fmt.Errorf("unexpected deployedAt type %T", out[1])
	}
	owner, ok := out[2].(common.Address)
	if !ok {
		return ledger.Stats{}, fmt.Errorf("unexpected owner type %T", out[2])
	}
	version, ok := out[3].(string)
	if !ok {
		return ledger.Stats{}, fmt.Errorf("unexpected version type %T", out[3])
	}

	return ledger.Stats{
		TotalAccounts: totalAccounts.Int64(),
		DeployedAt:    deployedAt.Int64(),
		Owner:         owner,
		Version:       version,
	}, nil
}

func (v *TaxVault) checkAccount(account common.Address) error {
	if account != v.connector.Account() {
		return fmt.Errorf("account %s does not match operator account %s",
			account.Hex(), v.connector.Account().Hex())
	}
	return nil
}

func (v *TaxVault) callBool(ctx context.Context, method string, account common.Address) (bool, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}

	if err := v.contract.Call(opts, &out, method, account); err != nil {
		return false, fmt.Errorf("failed to call %s: %w", method, err)
	}

	result, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected %s result type %T", method, out[0])
	}
	return result, nil
}

func (v *TaxVault) callTime(ctx context.Context, method string, account common.Address) (int64, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}

	if err := v.contract.Call(opts, &out, method, account); err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", method, err)
	}

	result, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected %s result type %T", method, out[0])
	}
	return result.Int64(), nil
}
