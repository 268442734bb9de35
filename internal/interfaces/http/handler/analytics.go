package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/logistics/backend/internal/application/analytics"
)

// AnalyticsHandler serves the dashboard summary
type AnalyticsHandler struct {
	BaseHandler
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(a *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: a}
}

// Summary handles GET /analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context(), h.principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
