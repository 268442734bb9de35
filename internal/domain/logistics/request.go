package logistics

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// MeasurePlaces is the precision of weights and volumes
const MeasurePlaces = 2

// Request is a client's cargo request, optionally attached to a shipment
type Request struct {
	shared.TenantEntity
	Number          int
	Description     string
	WarehouseNumber string
	Places          int
	DeclaredWeight  decimal.NullDecimal
	DeclaredVolume  decimal.NullDecimal
	ActualWeight    decimal.NullDecimal
	ActualVolume    decimal.NullDecimal
	// Rate is the JSON rate breakdown read by the cost calculator
	Rate       string
	Comment    string
	StatusID   uuid.UUID
	ClientID   uuid.UUID
	ManagerID  *uuid.UUID
	ShipmentID *uuid.UUID
}

// RequestDetails are the editable fields of a request
type RequestDetails struct {
	Description     string
	WarehouseNumber string
	Places          int
	DeclaredWeight  *decimal.Decimal
	DeclaredVolume  *decimal.Decimal
	ActualWeight    *decimal.Decimal
	ActualVolume    *decimal.Decimal
	Rate            string
	Comment         string
}

// NewRequest creates a numbered request for clientID in statusID
func NewRequest(tenantID, createdBy uuid.UUID, number int, clientID, statusID uuid.UUID, details RequestDetails) (*Request, error) {
	if number <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Request number must be positive")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Request must have a client")
	}
	r := &Request{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, createdBy),
		Number:       number,
		ClientID:     clientID,
		StatusID:     statusID,
	}
	if err := r.Apply(details); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply validates and copies details
func (r *Request) Apply(d RequestDetails) error {
	if d.Places < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Places cannot be negative")
	}
	if utf8.RuneCountInString(d.WarehouseNumber) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warehouse number cannot exceed 50 characters")
	}
	measures := []struct {
		name string
		in   *decimal.Decimal
		out  *decimal.NullDecimal
	}{
		{"Declared weight", d.DeclaredWeight, &r.DeclaredWeight},
		{"Declared volume", d.DeclaredVolume, &r.DeclaredVolume},
		{"Actual weight", d.ActualWeight, &r.ActualWeight},
		{"Actual volume", d.ActualVolume, &r.ActualVolume},
	}
	for _, m := range measures {
		if m.in != nil && m.in.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, m.name+" cannot be negative")
		}
	}
	if _, err := finance.ParseRateBreakdown(d.Rate); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Rate: "+err.Error())
	}

	for _, m := range measures {
		*m.out = nullMeasure(m.in)
	}
	r.Description = strings.TrimSpace(d.Description)
	r.WarehouseNumber = strings.TrimSpace(d.WarehouseNumber)
	r.Places = d.Places
	r.Rate = strings.TrimSpace(d.Rate)
	r.Comment = strings.TrimSpace(d.Comment)
	r.Touch()
	return nil
}

// AssignManager records the responsible manager
func (r *Request) AssignManager(managerID uuid.UUID) {
	r.ManagerID = &managerID
	r.Touch()
}

// AttachToShipment links the request to a shipment of the same tenant; nil detaches it
func (r *Request) AttachToShipment(s *Shipment) error {
	if s == nil {
		r.ShipmentID = nil
		r.Touch()
		return nil
	}
	if s.TenantID != r.TenantID {
		return shared.NewDomainError(shared.CodeValidationConflict, "Shipment belongs to another company")
	}
	id := s.ID
	r.ShipmentID = &id
	r.Touch()
	return nil
}

// WorkflowKind implements workflow.Transitionable
func (r *Request) WorkflowKind() workflow.Kind {
	return workflow.KindRequest
}

// CurrentStatusID implements workflow.Transitionable
func (r *Request) CurrentStatusID() uuid.UUID {
	return r.StatusID
}

// ApplyTransition implements workflow.Transitionable
func (r *Request) ApplyTransition(statusID uuid.UUID, fields workflow.TransitionFields) {
	r.StatusID = statusID
	if fields.Comment != nil {
		r.Comment = strings.TrimSpace(*fields.Comment)
	}
	if fields.ActualWeight != nil {
		r.ActualWeight = nullMeasure(fields.ActualWeight)
	}
	if fields.ActualVolume != nil {
		r.ActualVolume = nullMeasure(fields.ActualVolume)
	}
	r.Touch()
}

func nullMeasure(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(MeasurePlaces))
}
