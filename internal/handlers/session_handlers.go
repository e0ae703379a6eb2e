package handlers

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taxvault/taxvault-api/internal/logger"
	"go.uber.org/zap"
)

// sessionTTL bounds how long an issued session token stays valid.
const sessionTTL = 24 * time.Hour

// SessionHandler handles session-related operations
type SessionHandler struct {
	common *CommonServices
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(common *CommonServices) *SessionHandler {
	return &SessionHandler{common: common}
}

// CreateSessionRequest represents the request body for opening a session
type CreateSessionRequest struct {
	Account string `json:"account" binding:"required"`
}

// SessionResponse represents the issued session token
type SessionResponse struct {
	Token     string `json:"token"`
	Account   string `json:"account"`
	ExpiresAt int64  `json:"expires_at"`
}

// CreateSession opens a session for an account and issues its bearer token.
// This is the connect step: everything under /tax requires the token, and
// disconnecting is simply discarding it.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if !common.IsHexAddress(req.Account) {
		sendError(c, http.StatusBadRequest, "Invalid account address", nil)
		return
	}
	account := common.HexToAddress(req.Account)

	now := time.Now()
	expiresAt := now.Add(sessionTTL)
	claims := SessionClaims{
		Account: account.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.common.jwtSecret)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to issue session token", err)
		return
	}

	logger.Info("Session opened",
		zap.String("account", account.Hex()),
		zap.String("session_id", claims.ID))

	sendSuccess(c, http.StatusCreated, SessionResponse{
		Token:     token,
		Account:   account.Hex(),
		ExpiresAt: expiresAt.Unix(),
	})
}
