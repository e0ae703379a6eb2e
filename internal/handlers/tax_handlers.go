package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taxvault/taxvault-api/internal/constants"
	"github.com/taxvault/taxvault-api/internal/taxengine"
)

// TaxHandler handles taxpayer lifecycle operations
type TaxHandler struct {
	common *CommonServices
}

// NewTaxHandler creates a new TaxHandler instance
func NewTaxHandler(common *CommonServices) *TaxHandler {
	return &TaxHandler{common: common}
}

// SubmitTaxRequest represents the request body for submitting tax info.
// Either a preset scenario name or an explicit custom pair is given; a
// named preset wins over any accompanying values.
type SubmitTaxRequest struct {
	Scenario   string `json:"scenario,omitempty"`
	Income     *int64 `json:"income,omitempty"`
	Deductions *int64 `json:"deductions,omitempty"`
}

// SubmitTax commits an income and deductions pair to the ledger.
func (h *TaxHandler) SubmitTax(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	var req SubmitTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var income, deductions int64
	switch {
	case req.Scenario != "" && req.Scenario != constants.ScenarioCustom:
		scenario, ok := taxengine.ScenarioByName(req.Scenario)
		if !ok {
			sendError(c, http.StatusBadRequest, "Unknown scenario", nil)
			return
		}
		income, deductions = scenario.Income, scenario.Deductions
	default:
		if req.Income == nil || req.Deductions == nil {
			sendError(c, http.StatusBadRequest, "Custom submission requires income and deductions", nil)
			return
		}
		income, deductions = *req.Income, *req.Deductions
	}

	receipt, err := h.common.coordinators.For(account).Submit(c.Request.Context(), income, deductions)
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, receipt)
}

// CalculateTax asks the ledger to evaluate the account's tax.
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	receipt, err := h.common.coordinators.For(account).CalculateTax(c.Request.Context())
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, receipt)
}

// GetResult returns the calculated result, with the human-readable breakdown
// when the advisory cache still holds the submitted plaintext.
func (h *TaxHandler) GetResult(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	view, err := h.common.coordinators.For(account).ViewResult(c.Request.Context())
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, view)
}

// ClearRecord destroys the account's tax record.
func (h *TaxHandler) ClearRecord(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	receipt, err := h.common.coordinators.For(account).Clear(c.Request.Context())
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, receipt)
}

// GetStatus returns a fresh read of the account's lifecycle position.
func (h *TaxHandler) GetStatus(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	status, err := h.common.coordinators.For(account).Status(c.Request.Context())
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, status)
}

// ListScenarios returns the preset submission scenarios.
func (h *TaxHandler) ListScenarios(c *gin.Context) {
	sendList(c, taxengine.Scenarios())
}

// StatsHandler handles ledger-wide statistics
type StatsHandler struct {
	common *CommonServices
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(common *CommonServices) *StatsHandler {
	return &StatsHandler{common: common}
}

// StatsResponse represents the ledger-wide summary
type StatsResponse struct {
	TotalAccounts int64  `json:"total_accounts"`
	DeployedAt    int64  `json:"deployed_at"`
	Owner         string `json:"owner"`
	Version       string `json:"version"`
}

// GetStats returns the ledger-wide summary.
func (h *StatsHandler) GetStats(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "No session account", nil)
		return
	}

	stats, err := h.common.coordinators.For(account).Stats(c.Request.Context())
	if err != nil {
		sendTaxError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, StatsResponse{
		TotalAccounts: stats.TotalAccounts,
		DeployedAt:    stats.DeployedAt,
		Owner:         stats.Owner.Hex(),
		Version:       stats.Version,
	})
}
