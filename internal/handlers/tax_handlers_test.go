package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxvault/taxvault-api/internal/coordinator"
	"github.com/taxvault/taxvault-api/internal/ledger"
	"github.com/taxvault/taxvault-api/internal/logger"
	"github.com/taxvault/taxvault-api/internal/taxerrors"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

var testJWTSecret = []byte("test-secret")

// setupTestRouter mounts the full API surface over a fresh memory ledger.
func setupTestRouter() *gin.Engine {
	mem := ledger.NewMemoryLedger(common.HexToAddress("0xaa"))
	registry := NewRegistry(mem, mem, coordinator.NewMemoryCache())
	services := NewCommonServices(registry, testJWTSecret)

	sessionHandler := NewSessionHandler(services)
	taxHandler := NewTaxHandler(services)
	statsHandler := NewStatsHandler(services)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/session", sessionHandler.CreateSession)
	v1.GET("/scenarios", taxHandler.ListScenarios)

	protected := v1.Group("/")
	protected.Use(AuthMiddleware(testJWTSecret))
	protected.POST("/tax/submit", taxHandler.SubmitTax)
	protected.POST("/tax/calculate", taxHandler.CalculateTax)
	protected.GET("/tax/result", taxHandler.GetResult)
	protected.GET("/tax/status", taxHandler.GetStatus)
	protected.DELETE("/tax/record", taxHandler.ClearRecord)
	protected.GET("/stats", statsHandler.GetStats)

	return router
}

// performRequest runs one request through the router and returns the recorder.
func performRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openSession creates a session for the account and returns its token.
func openSession(t *testing.T, router *gin.Engine, account string) string {
	t.Helper()

	w := performRequest(router, http.MethodPost, "/api/v1/session", "", gin.H{"account": account})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestCreateSession(t *testing.T) {
	router := setupTestRouter()

	t.Run("valid account", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/session", "", gin.H{
			"account": "0x1111111111111111111111111111111111111111",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111").Hex(), resp.Account)
		assert.Greater(t, resp.ExpiresAt, int64(0))
	})

	t.Run("invalid address", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/session", "", gin.H{"account": "not-an-address"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing account", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/session", "", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	router := setupTestRouter()

	t.Run("no token", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/tax/status", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/tax/status", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with wrong secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
			Account: "0x2222222222222222222222222222222222222222",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := forged.SignedString([]byte("wrong-secret"))
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/api/v1/tax/status", signed, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTaxLifecycleHTTP(t *testing.T) {
	router := setupTestRouter()
	token := openSession(t, router, "0x2222222222222222222222222222222222222222")

	// Submit the medium preset.
	w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "medium"})
	require.Equal(t, http.StatusCreated, w.Code)

	var receipt coordinator.MutationReceipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.TxHash)
	assert.Equal(t, coordinator.StateSubmitted, receipt.Status.State)

	// Status reflects the submission.
	w = performRequest(router, http.MethodGet, "/api/v1/tax/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status coordinator.StatusReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, coordinator.StateSubmitted, status.State)
	assert.True(t, status.HasSubmitted)

	// Calculate.
	w = performRequest(router, http.MethodPost, "/api/v1/tax/calculate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Result carries the full breakdown for the medium preset.
	w = performRequest(router, http.MethodGet, "/api/v1/tax/result", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view coordinator.ViewReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.BreakdownAvailable)
	assert.Equal(t, int64(63000), view.TaxableIncome)
	assert.Equal(t, int64(7600), view.TaxOwed)
	assert.Equal(t, int64(20), view.MarginalRate)

	// Clear and verify the account is back to square one.
	w = performRequest(router, http.MethodDelete, "/api/v1/tax/record", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/api/v1/tax/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, coordinator.StateNotSubmitted, status.State)
}

func TestSubmitTaxValidation(t *testing.T) {
	router := setupTestRouter()
	token := openSession(t, router, "0x3333333333333333333333333333333333333333")

	t.Run("unknown scenario", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "extreme"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("custom without values", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "custom"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deductions exceed income", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{
			"income":     1000,
			"deductions": 2000,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(taxerrors.KindInvalidInput), resp.Kind)
	})

	t.Run("custom pair accepted", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{
			"income":     40000,
			"deductions": 10000,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestLifecycleConflicts(t *testing.T) {
	router := setupTestRouter()
	token := openSession(t, router, "0x4444444444444444444444444444444444444444")

	t.Run("calculate before submit", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(taxerrors.KindInvalidState), resp.Kind)
	})

	t.Run("result before calculate", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/v1/tax/result", token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("double submit", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "low"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "high"})
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(taxerrors.KindInvalidState), resp.Kind)
	})
}

func TestListScenarios(t *testing.T) {
	router := setupTestRouter()

	// Public route, no session needed.
	w := performRequest(router, http.MethodGet, "/api/v1/scenarios", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Object string `json:"object"`
		Data   []struct {
			Name       string `json:"name"`
			Income     int64  `json:"income"`
			Deductions int64  `json:"deductions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.Object)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "low", resp.Data[0].Name)
	assert.Equal(t, int64(30000), resp.Data[0].Income)
}

func TestGetStats(t *testing.T) {
	router := setupTestRouter()
	token := openSession(t, router, "0x5555555555555555555555555555555555555555")

	w := performRequest(router, http.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(0), stats.TotalAccounts)
	assert.NotEmpty(t, stats.Version)

	w = performRequest(router, http.MethodPost, "/api/v1/tax/submit", token, gin.H{"scenario": "low"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalAccounts)
}
