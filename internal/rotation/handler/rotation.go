package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/errors"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/httputil"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
)

// RotationHandler exposes the rotation report over HTTP
type RotationHandler struct {
	service *service.RotationService
	advisor *service.RestockAdvisor
	logger  *logger.Logger
}

// NewRotationHandler creates a new rotation handler
func NewRotationHandler(svc *service.RotationService, advisor *service.RestockAdvisor, log *logger.Logger) *RotationHandler {
	return &RotationHandler{
		service: svc,
		advisor: advisor,
		logger:  log,
	}
}

// reportResponse wraps the report with the service lifecycle state so the
// client can distinguish "still loading" from "loaded and empty".
type reportResponse struct {
	Status string                  `json:"status"`
	Report *service.RotationReport `json:"report,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// GetReport returns the current rotation report and service state
// GET /api/v1/rotation
func (h *RotationHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	status, report, lastErr := h.service.Current()

	httputil.JSON(w, http.StatusOK, reportResponse{
		Status: string(status),
		Report: report,
		Error:  lastErr,
	})
}

// Refresh recomputes the rotation report on demand
// POST /api/v1/rotation/refresh
func (h *RotationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Refresh(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("manual rotation refresh failed")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, reportResponse{
		Status: string(service.StatusReady),
		Report: report,
	})
}

// executeActionRequest is the payload for accepting a rotation suggestion
type executeActionRequest struct {
	ProductID       string  `json:"product_id" validate:"required"`
	ProductName     string  `json:"product_name" validate:"required"`
	LocationID      string  `json:"location_id"`
	LocationName    string  `json:"location_name"`
	Action          string  `json:"action" validate:"required,oneof=transfer discount dispose promote"`
	Priority        string  `json:"priority" validate:"required,oneof=high medium low"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
	Reason          string  `json:"reason"`
	ExpiryDate      string  `json:"expiry_date"`
	FinancialImpact float64 `json:"financial_impact" validate:"gte=0"`
}

// ExecuteAction acknowledges an operator-accepted suggestion
// POST /api/v1/rotation/actions
func (h *RotationHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	var req executeActionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	suggestion := service.RotationSuggestion{
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		LocationID:      req.LocationID,
		LocationName:    req.LocationName,
		Action:          service.SuggestionAction(req.Action),
		Priority:        service.SuggestionPriority(req.Priority),
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		FinancialImpact: decimal.NewFromFloat(req.FinancialImpact),
	}

	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			httputil.Error(w, errors.BadRequest("expiry_date must be YYYY-MM-DD"))
			return
		}
		suggestion.ExpiryDate = expiry
	}

	if err := h.service.ExecuteAction(r.Context(), suggestion); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// GetRestock returns restock suggestions for products under minimum stock
// GET /api/v1/rotation/restock
func (h *RotationHandler) GetRestock(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.advisor.Suggest(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute restock suggestions")
		httputil.Error(w, errors.Internal("failed to compute restock suggestions"))
		return
	}

	httputil.JSON(w, http.StatusOK, suggestions)
}
