package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/application/ledger"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/interfaces/http/middleware"
)

// LedgerHandler serves ledger entries and balances
type LedgerHandler struct {
	BaseHandler
	ledger *ledger.Service
	guard  *access.Guard
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(l *ledger.Service, guard *access.Guard) *LedgerHandler {
	return &LedgerHandler{ledger: l, guard: guard}
}

// List handles GET /ledger
func (h *LedgerHandler) List(c *gin.Context) {
	var filter ledger.ListFilter
	var ok bool
	if filter.ShipmentID, ok = h.queryID(c, "shipment_id"); !ok {
		return
	}
	if filter.RequestID, ok = h.queryID(c, "request_id"); !ok {
		return
	}
	if raw := c.Query("operation_type"); raw != "" {
		op := finance.OperationType(raw)
		if !op.IsValid() {
			h.BadRequest(c, "Invalid operation_type")
			return
		}
		filter.OperationType = op
	}
	if raw := c.Query("currency"); raw != "" {
		cur, err := finance.ParseCurrency(raw)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		filter.Currency = cur
	}

	entries, err := h.ledger.List(c.Request.Context(), h.principal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = toLedgerEntryResponse(&entries[i])
	}
	h.SuccessList(c, out, len(out))
}

// Get handles GET /ledger/:id
func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.ledger.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLedgerEntryResponse(entry))
}

// Record handles POST /ledger. A replayed idempotent call answers 200 with
// the original entry instead of 201.
func (h *LedgerHandler) Record(c *gin.Context) {
	var req RecordEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if key == "" {
		key = strings.TrimSpace(req.IdempotencyKey)
	}

	result, err := h.ledger.Record(c.Request.Context(), h.principal(c), ledger.RecordInput{
		EntryDetails:   req.toDetails(),
		IdempotencyKey: key,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		h.Success(c, toLedgerEntryResponse(result.Entry))
		return
	}
	h.Created(c, toLedgerEntryResponse(result.Entry))
}

// Update handles PUT /ledger/:id
func (h *LedgerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req LedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.ledger.Update(c.Request.Context(), h.principal(c), id, req.toDetails())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLedgerEntryResponse(entry))
}

// Delete handles DELETE /ledger/:id
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balance handles GET /balance
func (h *LedgerHandler) Balance(c *gin.Context) {
	tenantID, ok := h.authorizeTenant(c, h.guard, identity.RoleManager)
	if !ok {
		return
	}
	totals, err := h.ledger.IncomeExpenses(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceResponse{Income: totals.Income, Expenses: totals.Expenses, Balance: totals.Balance})
}

// CounterpartyBalance handles GET /counterparty-balance
func (h *LedgerHandler) CounterpartyBalance(c *gin.Context) {
	tenantID, ok := h.authorizeTenant(c, h.guard, identity.RoleManager)
	if !ok {
		return
	}
	rows, err := h.ledger.CounterpartyBalances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]CounterpartyBalanceResponse, len(rows))
	for i, r := range rows {
		out[i] = CounterpartyBalanceResponse{CounterpartyID: r.CounterpartyID, Name: r.Name, Balances: r.Balances}
	}
	h.SuccessList(c, out, len(out))
}
