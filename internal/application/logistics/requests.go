package logistics

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	appworkflow "github.com/logistics/backend/internal/application/workflow"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// numberAttempts bounds retries when a concurrent insert takes the same number
const numberAttempts = 3

// RequestService manages client requests
type RequestService struct {
	requests    logistics.RequestRepository
	shipments   logistics.ShipmentRepository
	attachments logistics.AttachmentRepository
	users       identity.UserRepository
	storage     ObjectStorage
	registry    appworkflow.Registry
	guard       *access.Guard
	logger      *zap.Logger
}

// RequestDeps groups the collaborators of RequestService
type RequestDeps struct {
	Requests    logistics.RequestRepository
	Shipments   logistics.ShipmentRepository
	Attachments logistics.AttachmentRepository
	Users       identity.UserRepository
	Storage     ObjectStorage
	Registry    appworkflow.Registry
	Guard       *access.Guard
}

// NewRequestService creates the request service
func NewRequestService(deps RequestDeps, logger *zap.Logger) *RequestService {
	return &RequestService{
		requests:    deps.Requests,
		shipments:   deps.Shipments,
		attachments: deps.Attachments,
		users:       deps.Users,
		storage:     deps.Storage,
		registry:    deps.Registry,
		guard:       deps.Guard,
		logger:      logger,
	}
}

// List returns the requests p may see. Clients only see their own.
func (s *RequestService) List(ctx context.Context, p *identity.Principal, filter logistics.RequestFilter) ([]logistics.Request, error) {
	if err := s.guard.RequireCollection(p, identity.RoleClient); err != nil {
		return nil, err
	}
	scope := s.guard.ReadScope(p)
	if scope.Empty() {
		return []logistics.Request{}, nil
	}
	return s.requests.FindAll(ctx, scope, filter)
}

// Get returns one request under the same visibility as List
func (s *RequestService) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*logistics.Request, error) {
	return s.load(ctx, p, identity.RoleClient, id)
}

func (s *RequestService) load(ctx context.Context, p *identity.Principal, required identity.Role, id uuid.UUID) (*logistics.Request, error) {
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, err
	}
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, required, request); err != nil {
		return nil, err
	}

	scope := s.guard.ReadScope(p)
	if scope.ClientID != nil && *scope.ClientID != request.ClientID {
		return nil, shared.ErrNotFound
	}
	if len(scope.StatusCodes) > 0 {
		visible, err := s.requests.FindAll(ctx, scope, logistics.RequestFilter{
			Filter: shared.Filter{}.Where("id", id),
		})
		if err != nil {
			return nil, err
		}
		if len(visible) == 0 {
			return nil, shared.ErrNotFound
		}
	}
	return request, nil
}

// Create numbers and stores a request in the default status. A client
// creates for itself; staff name the client and become the manager.
func (s *RequestService) Create(ctx context.Context, p *identity.Principal, input CreateRequestInput) (*logistics.Request, error) {
	if err := s.guard.RequireCollection(p, identity.RoleClient); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}

	clientID, err := s.resolveClient(ctx, p, tenantID, input.ClientID)
	if err != nil {
		return nil, err
	}
	var shipment *logistics.Shipment
	if input.ShipmentID != nil {
		if p.IsClient() {
			return nil, shared.ErrAuthorizationDenied
		}
		if shipment, err = s.shipmentOf(ctx, tenantID, *input.ShipmentID); err != nil {
			return nil, err
		}
	}
	status, err := s.registry.GetDefault(ctx, tenantID, workflow.KindRequest)
	if err != nil {
		return nil, err
	}

	var request *logistics.Request
	for attempt := 1; ; attempt++ {
		number, err := s.requests.NextNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		request, err = logistics.NewRequest(tenantID, p.ID, number, clientID, status.ID, input.Details)
		if err != nil {
			return nil, err
		}
		if !p.IsClient() {
			request.AssignManager(p.ID)
		}
		if err := request.AttachToShipment(shipment); err != nil {
			return nil, err
		}

		err = s.requests.Save(ctx, request)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrValidationConflict) || attempt == numberAttempts {
			return nil, err
		}
		s.logger.Warn("Request number taken, retrying",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("number", number),
		)
	}

	s.logger.Info("Request created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", request.ID.String()),
		zap.Int("number", request.Number),
	)
	return request, nil
}

func (s *RequestService) resolveClient(ctx context.Context, p *identity.Principal, tenantID uuid.UUID, requested *uuid.UUID) (uuid.UUID, error) {
	if p.IsClient() {
		return p.ID, nil
	}
	if requested == nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeInvalidInput, "Client is required")
	}
	client, err := s.users.FindByID(ctx, *requested)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError(shared.CodeValidationConflict, "Client is not available in this company")
		}
		return uuid.Nil, err
	}
	if client.GetTenantID() != tenantID {
		return uuid.Nil, shared.NewDomainError(shared.CodeValidationConflict, "Client is not available in this company")
	}
	return client.ID, nil
}

func (s *RequestService) shipmentOf(ctx context.Context, tenantID, shipmentID uuid.UUID) (*logistics.Shipment, error) {
	shipment, err := s.shipments.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, shared.NewDomainError(shared.CodeValidationConflict, "Shipment is not available in this company")
		}
		return nil, err
	}
	return shipment, nil
}

// Update replaces the editable fields. Clients may edit their own requests
// but cannot touch the rate or the measured values.
func (s *RequestService) Update(ctx context.Context, p *identity.Principal, id uuid.UUID, details logistics.RequestDetails) (*logistics.Request, error) {
	request, err := s.load(ctx, p, identity.RoleClient, id)
	if err != nil {
		return nil, err
	}
	if p.IsClient() {
		details.Rate = request.Rate
		details.ActualWeight = nullable(request.ActualWeight.Valid, request.ActualWeight.Decimal)
		details.ActualVolume = nullable(request.ActualVolume.Valid, request.ActualVolume.Decimal)
	}
	if err := request.Apply(details); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Transition changes the status together with the measured values. Needs warehouse or higher.
func (s *RequestService) Transition(ctx context.Context, p *identity.Principal, id uuid.UUID, input TransitionInput) (*logistics.Request, error) {
	request, err := s.load(ctx, p, identity.RoleWarehouse, id)
	if err != nil {
		return nil, err
	}
	fields := workflow.TransitionFields{
		Comment:      input.Comment,
		ActualWeight: input.ActualWeight,
		ActualVolume: input.ActualVolume,
	}
	if err := s.registry.Transition(ctx, request, input.StatusID, fields); err != nil {
		return nil, err
	}
	return request, nil
}

// AssignShipment attaches the request to a shipment of the same company, or
// detaches it when shipmentID is nil. Needs manager or higher.
func (s *RequestService) AssignShipment(ctx context.Context, p *identity.Principal, id uuid.UUID, shipmentID *uuid.UUID) (*logistics.Request, error) {
	request, err := s.load(ctx, p, identity.RoleManager, id)
	if err != nil {
		return nil, err
	}
	var shipment *logistics.Shipment
	if shipmentID != nil {
		if shipment, err = s.shipmentOf(ctx, request.TenantID, *shipmentID); err != nil {
			return nil, err
		}
	}
	if err := request.AttachToShipment(shipment); err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Delete removes a request and its files. Needs manager or higher.
func (s *RequestService) Delete(ctx context.Context, p *identity.Principal, id uuid.UUID) error {
	request, err := s.load(ctx, p, identity.RoleManager, id)
	if err != nil {
		return err
	}
	files, err := s.attachments.FindRequestFiles(ctx, request)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, request.TenantID, request.ID); err != nil {
		return err
	}
	for i := range files {
		removeObject(ctx, s.storage, s.logger, files[i].ObjectKey)
	}
	s.logger.Info("Request deleted",
		zap.String("tenant_id", request.TenantID.String()),
		zap.String("request_id", request.ID.String()),
	)
	return nil
}

func nullable(valid bool, d decimal.Decimal) *decimal.Decimal {
	if !valid {
		return nil
	}
	return &d
}
