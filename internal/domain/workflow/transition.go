package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransitionFields are the optional field updates written together with a status change
type TransitionFields struct {
	Comment      *string
	ActualWeight *decimal.Decimal
	ActualVolume *decimal.Decimal
}

// Transitionable is a work item whose status lives in the registry
type Transitionable interface {
	shared.TenantScoped
	GetID() uuid.UUID
	WorkflowKind() Kind
	CurrentStatusID() uuid.UUID
	ApplyTransition(statusID uuid.UUID, fields TransitionFields)
}

// TransitionStore writes a status change and its fields in one statement
type TransitionStore interface {
	SaveTransition(ctx context.Context, target Transitionable) error
}

// ValidateTransition checks that status may be assigned to target
func ValidateTransition(target Transitionable, status *Status) error {
	if status.TenantID != target.GetTenantID() {
		return shared.NewDomainError(shared.CodeValidationConflict, "Status belongs to another company")
	}
	if status.Kind != target.WorkflowKind() {
		return shared.NewDomainError(shared.CodeValidationConflict, "Status kind does not match the record")
	}
	return nil
}

// Validate rejects negative measurements
func (f TransitionFields) Validate() error {
	if f.ActualWeight != nil && f.ActualWeight.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Actual weight cannot be negative")
	}
	if f.ActualVolume != nil && f.ActualVolume.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Actual volume cannot be negative")
	}
	return nil
}
