package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/workflow"
)

// StatusResponse is the API view of a workflow status
type StatusResponse struct {
	ID        uuid.UUID     `json:"id"`
	Kind      workflow.Kind `json:"kind"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Order     int           `json:"order"`
	IsFinal   bool          `json:"is_final"`
	IsDefault bool          `json:"is_default"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func toStatusResponse(s *workflow.Status) StatusResponse {
	return StatusResponse{
		ID:        s.ID,
		Kind:      s.Kind,
		Code:      s.Code,
		Name:      s.Name,
		Order:     s.Order,
		IsFinal:   s.IsFinal,
		IsDefault: s.IsDefault,
		UpdatedAt: s.UpdatedAt,
	}
}

// CreateStatusRequest is the body of POST /statuses
type CreateStatusRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=shipment request"`
	Code      string `json:"code" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	Order     int    `json:"order" binding:"gte=0"`
	IsFinal   bool   `json:"is_final"`
	IsDefault bool   `json:"is_default"`
}

// UpdateStatusRequest is the body of PUT /statuses/:id
type UpdateStatusRequest struct {
	Code      *string `json:"code" binding:"omitempty,max=50"`
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Order     *int    `json:"order" binding:"omitempty,gte=0"`
	IsFinal   *bool   `json:"is_final"`
	IsDefault bool    `json:"is_default"`
}

// SetDefaultStatusRequest is the body of PUT /statuses/default
type SetDefaultStatusRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=shipment request"`
	StatusID string `json:"status_id" binding:"required,uuid"`
}

// ReorderStatusesRequest is the body of PUT /statuses/order
type ReorderStatusesRequest struct {
	Kind string   `json:"kind" binding:"required,oneof=shipment request"`
	IDs  []string `json:"ids" binding:"required,min=1,dive,uuid"`
}
