package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// accountContextKey is where the auth middleware stores the authenticated
// account address for downstream handlers.
const accountContextKey = "account"

// SessionClaims is the JWT payload issued on session creation. The account
// address is the only identity the service tracks.
type SessionClaims struct {
	Account string `json:"account"`
	jwt.RegisteredClaims
}

// ValidateSessionToken validates a session JWT and returns its claims.
func ValidateSessionToken(tokenString string, secret []byte) (*SessionClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !common.IsHexAddress(claims.Account) {
		return nil, fmt.Errorf("token carries an invalid account address")
	}
	return claims, nil
}

// AuthMiddleware requires a valid session token and binds the session's
// account to the request context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Log.Debug("Authentication failed",
				zap.String("reason", "no authentication header provided"),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authentication provided"})
			c.Abort()
			return
		}

		claims, err := ValidateSessionToken(authHeader, secret)
		if err != nil {
			logger.Log.Debug("Session token validation failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(accountContextKey, common.HexToAddress(claims.Account))
		c.Next()
	}
}

// accountFromContext returns the authenticated account placed there by
// AuthMiddleware.
func accountFromContext(c *gin.Context) (common.Address, bool) {
	value, exists := c.Get(accountContextKey)
	if !exists {
		return common.Address{}, false
	}
	account, ok := value.(common.Address)
	return account, ok
}

// RateLimitMiddleware enforces a per-client token bucket. Stale buckets are
// never evicted; the client set is bounded by the session endpoint's reach.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(clientIP string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[clientIP]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[clientIP] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			logger.Log.Debug("Request rate limited",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// shouldSkipLogging determines if request logging should be skipped for a given path
func shouldSkipLogging(path string) bool {
	return path == "/health"
}

// LogRequest is a middleware that logs each request
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkipLogging(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Log.Debug("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
