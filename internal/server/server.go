package server

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taxvault/taxvault-api/internal/chain"
	"github.com/taxvault/taxvault-api/internal/config"
	"github.com/taxvault/taxvault-api/internal/constants"
	"github.com/taxvault/taxvault-api/internal/coordinator"
	"github.com/taxvault/taxvault-api/internal/db"
	"github.com/taxvault/taxvault-api/internal/handlers"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	sessionHandler *handlers.SessionHandler
	taxHandler     *handlers.TaxHandler
	statsHandler   *handlers.StatsHandler
	healthHandler  *handlers.HealthHandler

	// Chain resources held for shutdown
	connector *chain.Connector
	pool      *pgxpool.Pool
)

// InitializeHandlers builds the ledger backend, the advisory cache and the
// HTTP handlers from the loaded configuration.
func InitializeHandlers(ctx context.Context, cfg *config.Config) {
	backend, watcher := buildLedger(ctx, cfg)
	cache := buildCache(ctx, cfg)

	registry := handlers.NewRegistry(backend, watcher, cache)
	commonServices := handlers.NewCommonServices(registry, []byte(cfg.JWTSecret))

	sessionHandler = handlers.NewSessionHandler(commonServices)
	taxHandler = handlers.NewTaxHandler(commonServices)
	statsHandler = handlers.NewStatsHandler(commonServices)
	healthHandler = handlers.NewHealthHandler()
}

// buildLedger selects the ledger backend. Memory mode serves tests and local
// development; chain mode binds the deployed TaxVault contract.
func buildLedger(ctx context.Context, cfg *config.Config) (ledger.Ledger, ledger.Watcher) {
	if cfg.LedgerMode == constants.LedgerModeMemory {
		logger.Info("Using in-process memory ledger")
		mem := ledger.NewMemoryLedger(common.Address{})
		return mem, mem
	}

	var err error
	connector, err = chain.NewConnector(cfg.RPCURL, cfg.OperatorKeyHex, cfg.ChainID)
	if err != nil {
		logger.Fatal("Unable to create chain connector", zap.Error(err))
	}
	if err := connector.EnsureChain(ctx); err != nil {
		logger.Fatal("Connected node is on the wrong chain", zap.Error(err))
	}

	vault, err := chain.NewTaxVault(connector, cfg.ContractAddress)
	if err != nil {
		logger.Fatal("Unable to bind TaxVault contract", zap.Error(err))
	}

	logger.Info("Using TaxVault contract ledger",
		zap.String("contract", cfg.ContractAddress),
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("operator", connector.Account().Hex()))

	return vault, chain.NewReceiptWatcher(connector)
}

// buildCache selects the advisory submission cache. Without a database the
// cache is process-local and a restart degrades views, which is acceptable
// for the display-only data it holds.
func buildCache(ctx context.Context, cfg *config.Config) coordinator.SubmissionCache {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, using in-memory submission cache")
		return coordinator.NewMemoryCache()
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to parse database connection string", zap.Error(err))
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}

	return db.NewSubmissionStore(db.New(pool))
}

// InitializeRoutes mounts middleware and the API surface on the router.
func InitializeRoutes(router *gin.Engine, cfg *config.Config) {
	router.Use(configureCORS())
	router.Use(handlers.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", healthHandler.Health)

	// if we are not in production, log each request
	if cfg.Stage != constants.ProdEnvironment {
		router.Use(handlers.LogRequest())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/session", sessionHandler.CreateSession)
		v1.GET("/scenarios", taxHandler.ListScenarios)

		// Protected routes (session token required)
		protected := v1.Group("/")
		protected.Use(handlers.AuthMiddleware([]byte(cfg.JWTSecret)))
		{
			tax := protected.Group("/tax")
			{
				tax.POST("/submit", taxHandler.SubmitTax)
				tax.POST("/calculate", taxHandler.CalculateTax)
				tax.GET("/result", taxHandler.GetResult)
				tax.GET("/status", taxHandler.GetStatus)
				tax.DELETE("/record", taxHandler.ClearRecord)
			}

			protected.GET("/stats", statsHandler.GetStats)
		}
	}
}

// Shutdown releases chain and database resources.
func Shutdown() {
	if connector != nil {
		connector.Close()
	}
	if pool != nil {
		pool.Close()
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
