package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/taxvault/taxvault-api/internal/constants"
	"github.com/taxvault/taxvault-api/internal/helpers"
)

// Config holds all runtime configuration for the API service.
// Values are read from the environment once at startup; there is no
// ambient configuration singleton beyond the value returned by Load.
type Config struct {
	Stage string
	Port  string

	// Ledger selection: "memory" runs against the in-process ledger,
	// "chain" runs against a deployed TaxVault contract.
	LedgerMode string

	// Chain mode settings
	RPCURL          string
	ChainID         int64
	ContractAddress string
	OperatorKeyHex  string

	// Advisory submission cache; empty means the in-memory cache is used
	DatabaseURL string

	// Session tokens
	JWTSecret string

	// API rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment and validates the
// combinations that cannot be defaulted.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:           getEnv("STAGE", "dev"),
		Port:            getEnv("PORT", "8000"),
		LedgerMode:      getEnv("LEDGER_MODE", constants.LedgerModeMemory),
		RPCURL:          os.Getenv("RPC_URL"),
		ContractAddress: os.Getenv("CONTRACT_ADDRESS"),
		OperatorKeyHex:  os.Getenv("OPERATOR_PRIVATE_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if !helpers.IsValidStage(cfg.Stage) {
		return nil, fmt.Errorf("invalid STAGE: %s", cfg.Stage)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch cfg.LedgerMode {
	case constants.LedgerModeMemory:
		// Nothing else required; accounts are derived locally.
	case constants.LedgerModeChain:
		if cfg.RPCURL == "" {
			return nil, fmt.Errorf("RPC_URL environment variable is required in chain mode")
		}
		if cfg.ContractAddress == "" {
			return nil, fmt.Errorf("CONTRACT_ADDRESS environment variable is required in chain mode")
		}
		if cfg.OperatorKeyHex == "" {
			return nil, fmt.Errorf("OPERATOR_PRIVATE_KEY environment variable is required in chain mode")
		}
		chainID, err := strconv.ParseInt(os.Getenv("CHAIN_ID"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CHAIN_ID environment variable is required in chain mode: %w", err)
		}
		cfg.ChainID = chainID
	default:
		return nil, fmt.Errorf("invalid LEDGER_MODE: %s", cfg.LedgerMode)
	}

	return cfg, nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
