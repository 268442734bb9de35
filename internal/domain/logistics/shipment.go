// Package logistics holds shipments, requests and the files attached to them.
package logistics

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
)

// Shipment is a consignment that groups client requests
type Shipment struct {
	shared.TenantEntity
	Number   string
	StatusID uuid.UUID
	Comment  string
}

// NewShipment creates a shipment in statusID
func NewShipment(tenantID, createdBy uuid.UUID, number string, statusID uuid.UUID, comment string) (*Shipment, error) {
	s := &Shipment{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, createdBy),
		StatusID:     statusID,
	}
	if err := s.Update(number, comment); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes number and comment
func (s *Shipment) Update(number, comment string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Shipment number cannot be empty")
	}
	if utf8.RuneCountInString(number) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Shipment number cannot exceed 50 characters")
	}
	s.Number = number
	s.Comment = strings.TrimSpace(comment)
	s.Touch()
	return nil
}

// WorkflowKind implements workflow.Transitionable
func (s *Shipment) WorkflowKind() workflow.Kind {
	return workflow.KindShipment
}

// CurrentStatusID implements workflow.Transitionable
func (s *Shipment) CurrentStatusID() uuid.UUID {
	return s.StatusID
}

// ApplyTransition implements workflow.Transitionable. Shipments carry no measurements.
func (s *Shipment) ApplyTransition(statusID uuid.UUID, fields workflow.TransitionFields) {
	s.StatusID = statusID
	if fields.Comment != nil {
		s.Comment = strings.TrimSpace(*fields.Comment)
	}
	s.Touch()
}
