package handlers

import (
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/taxvault/taxvault-api/internal/coordinator"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"github.com/taxvault/taxvault-api/internal/taxerrors"
	"go.uber.org/zap"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	coordinators *Registry
	jwtSecret    []byte
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(coordinators *Registry, jwtSecret []byte) *CommonServices {
	return &CommonServices{
		coordinators: coordinators,
		jwtSecret:    jwtSecret,
	}
}

// Registry hands out one lifecycle coordinator per account. All coordinators
// share the same ledger, watcher and advisory cache, so the per-operation
// in-flight guard spans every session bound to the same account.
type Registry struct {
	ledger  ledger.Ledger
	watcher ledger.Watcher
	cache   coordinator.SubmissionCache

	mu        sync.Mutex
	byAccount map[common.Address]*coordinator.Coordinator
}

// NewRegistry creates a registry over the given ledger backend.
func NewRegistry(l ledger.Ledger, w ledger.Watcher, cache coordinator.SubmissionCache) *Registry {
	return &Registry{
		ledger:    l,
		watcher:   w,
		cache:     cache,
		byAccount: make(map[common.Address]*coordinator.Coordinator),
	}
}

// For returns the coordinator bound to the account, creating it on first use.
func (r *Registry) For(account common.Address) *coordinator.Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byAccount[account]; ok {
		return c
	}
	c := coordinator.New(coordinator.NewSession(account), r.ledger, r.watcher, r.cache)
	r.byAccount[account] = c
	return c
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// kindStatus maps error kinds to HTTP status codes. State conflicts,
// pending duplicates and operator rejections are all 409: the request was
// well-formed but the current lifecycle position refuses it.
var kindStatus = map[taxerrors.Kind]int{
	taxerrors.KindInvalidInput:      http.StatusBadRequest,
	taxerrors.KindInvalidState:      http.StatusConflict,
	taxerrors.KindAlreadyPending:    http.StatusConflict,
	taxerrors.KindUserDeclined:      http.StatusConflict,
	taxerrors.KindResourceExhausted: http.StatusPaymentRequired,
	taxerrors.KindConnectivity:      http.StatusBadGateway,
	taxerrors.KindUnknown:           http.StatusInternalServerError,
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendTaxError classifies a lifecycle or ledger error into its kind and maps
// the kind to a status code. The kind is included in the body so clients can
// branch without parsing messages.
func sendTaxError(c *gin.Context, err error) {
	kind := taxerrors.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	logger.Error("Tax operation failed",
		zap.Error(err),
		zap.String("kind", string(kind)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage is a helper function that sends a success message
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}

// sendList is a helper function that sends a list response
func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}
