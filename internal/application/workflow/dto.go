package workflow

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/workflow"
)

// CreateStatusInput creates a status. Order 0 appends after the last status.
type CreateStatusInput struct {
	TenantID  uuid.UUID
	Kind      workflow.Kind
	Code      string
	Name      string
	Order     int
	IsFinal   bool
	IsDefault bool
}

// UpdateStatusInput updates a status. Nil fields keep their value.
// IsDefault=false never clears a default; another status must take it over.
type UpdateStatusInput struct {
	TenantID  uuid.UUID
	ID        uuid.UUID
	Code      *string
	Name      *string
	Order     *int
	IsFinal   *bool
	IsDefault bool
}
