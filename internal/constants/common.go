package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Ledger modes
	LedgerModeMemory = "memory"
	LedgerModeChain  = "chain"

	// Currencies
	USDCurrency = "USD"

	// Contract version reported by the ledger stats read
	ContractVersion = "1.0.0"
)
