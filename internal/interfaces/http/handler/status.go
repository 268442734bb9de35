package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/application/workflow"
	"github.com/logistics/backend/internal/domain/identity"
	domain "github.com/logistics/backend/internal/domain/workflow"
)

// StatusHandler administers the status registry. Any tenant member may
// read; writes need admin.
type StatusHandler struct {
	BaseHandler
	registry *workflow.Service
	guard    *access.Guard
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(registry *workflow.Service, guard *access.Guard) *StatusHandler {
	return &StatusHandler{registry: registry, guard: guard}
}

func (h *StatusHandler) tenant(c *gin.Context, required identity.Role) (uuid.UUID, bool) {
	return h.authorizeTenant(c, h.guard, required)
}

// List handles GET /statuses?kind=
func (h *StatusHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c, identity.RoleClient)
	if !ok {
		return
	}
	kind, err := domain.ParseKind(c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	statuses, err := h.registry.List(c.Request.Context(), tenantID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]StatusResponse, len(statuses))
	for i := range statuses {
		out[i] = toStatusResponse(&statuses[i])
	}
	h.SuccessList(c, out, len(out))
}

// Get handles GET /statuses/:id
func (h *StatusHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleClient)
	if !ok {
		return
	}
	status, err := h.registry.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStatusResponse(status))
}

// Create handles POST /statuses
func (h *StatusHandler) Create(c *gin.Context) {
	var req CreateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleAdmin)
	if !ok {
		return
	}
	status, err := h.registry.Create(c.Request.Context(), workflow.CreateStatusInput{
		TenantID:  tenantID,
		Kind:      domain.Kind(req.Kind),
		Code:      req.Code,
		Name:      req.Name,
		Order:     req.Order,
		IsFinal:   req.IsFinal,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toStatusResponse(status))
}

// Update handles PUT /statuses/:id
func (h *StatusHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleAdmin)
	if !ok {
		return
	}
	status, err := h.registry.Update(c.Request.Context(), workflow.UpdateStatusInput{
		TenantID:  tenantID,
		ID:        id,
		Code:      req.Code,
		Name:      req.Name,
		Order:     req.Order,
		IsFinal:   req.IsFinal,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStatusResponse(status))
}

// Delete handles DELETE /statuses/:id
func (h *StatusHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleAdmin)
	if !ok {
		return
	}
	if err := h.registry.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefault handles PUT /statuses/default
func (h *StatusHandler) SetDefault(c *gin.Context) {
	var req SetDefaultStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleAdmin)
	if !ok {
		return
	}
	if err := h.registry.SetDefault(c.Request.Context(), tenantID, domain.Kind(req.Kind), uuid.MustParse(req.StatusID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reorder handles PUT /statuses/order
func (h *StatusHandler) Reorder(c *gin.Context) {
	var req ReorderStatusesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenantID, ok := h.tenant(c, identity.RoleAdmin)
	if !ok {
		return
	}
	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = uuid.MustParse(raw)
	}
	if err := h.registry.Reorder(c.Request.Context(), tenantID, domain.Kind(req.Kind), ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
