package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/logistics/backend/internal/application/costing"
	"github.com/logistics/backend/internal/application/ledger"
)

// CalculationHandler serves per-shipment cost calculations
type CalculationHandler struct {
	BaseHandler
	costing *costing.Service
	ledger  *ledger.Service
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(c *costing.Service, l *ledger.Service) *CalculationHandler {
	return &CalculationHandler{costing: c, ledger: l}
}

// ByShipment handles GET /calculations/by-shipment/:shipment_id and creates
// the calculation on first access
func (h *CalculationHandler) ByShipment(c *gin.Context) {
	shipmentID, ok := h.pathID(c, "shipment_id")
	if !ok {
		return
	}
	calc, err := h.costing.ByShipment(c.Request.Context(), h.principal(c), shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCalculationResponse(calc))
}

// Get handles GET /calculations/:id
func (h *CalculationHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	calc, err := h.costing.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCalculationResponse(calc))
}

// Update handles PUT /calculations/:id
func (h *CalculationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RatesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	calc, err := h.costing.Update(c.Request.Context(), h.principal(c), id, req.EuroRate, req.USDRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCalculationResponse(calc))
}

// RelatedRequests handles GET /calculations/:id/related-requests
func (h *CalculationHandler) RelatedRequests(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	requests, err := h.costing.RelatedRequests(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toRequestResponses(requests), len(requests))
}

// CalculateCosts handles POST /calculations/:id/calculate-costs. Rates in
// the body are stored before converting. The body may be empty.
func (h *CalculationHandler) CalculateCosts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req RatesRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	report, err := h.costing.CalculateByID(c.Request.Context(), h.principal(c), id, req.EuroRate, req.USDRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCostReportResponse(report))
}

// Expenses handles GET /calculations/:id/expenses
func (h *CalculationHandler) Expenses(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	calc, err := h.costing.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	expenses, err := h.ledger.ExpensesForShipment(c.Request.Context(), calc.TenantID, calc.ShipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShipmentExpensesResponse(expenses))
}
