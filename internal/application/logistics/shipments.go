// Package logistics runs shipments, requests and their files on top of the
// access guard and the status registry.
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
	"go.uber.org/zap"
)

var errShipmentExists = shared.NewDomainError(shared.CodeValidationConflict, "Shipment with this number already exists")

// ShipmentService manages shipments
type ShipmentService struct {
	shipments   logistics.ShipmentRepository
	attachments logistics.AttachmentRepository
	storage     ObjectStorage
	registry    appworkflow.Registry
	guard       *access.Guard
	logger      *zap.Logger
}

// NewShipmentService creates the shipment service
func NewShipmentService(
	shipments logistics.ShipmentRepository,
	attachments logistics.AttachmentRepository,
	storage ObjectStorage,
	registry appworkflow.Registry,
	guard *access.Guard,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipments:   shipments,
		attachments: attachments,
		storage:     storage,
		registry:    registry,
		guard:       guard,
		logger:      logger,
	}
}

// List returns the shipments p may see. Clients see shipments carrying their
// requests; warehouse staff may be limited to configured statuses.
func (s *ShipmentService) List(ctx context.Context, p *identity.Principal, filter shared.Filter) ([]logistics.Shipment, error) {
	if err := s.guard.RequireCollection(p, identity.RoleClient); err != nil {
		return nil, err
	}
	scope := s.guard.ReadScope(p)
	if scope.Empty() {
		return []logistics.Shipment{}, nil
	}
	return s.shipments.FindAll(ctx, scope, filter)
}

// Get returns one shipment under the same visibility as List
func (s *ShipmentService) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*logistics.Shipment, error) {
	return s.load(ctx, p, identity.RoleClient, id)
}

// load resolves a shipment for p. Denials and misses look the same to the caller.
func (s *ShipmentService) load(ctx context.Context, p *identity.Principal, required identity.Role, id uuid.UUID) (*logistics.Shipment, error) {
	if err := s.guard.RequireCollection(p, required); err != nil {
		return nil, err
	}
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireObject(p, required, shipment); err != nil {
		return nil, err
	}

	scope := s.guard.ReadScope(p)
	if scope.ClientID == nil && len(scope.StatusCodes) == 0 {
		return shipment, nil
	}
	visible, err := s.shipments.FindAll(ctx, scope, shared.Filter{}.Where("id", id))
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return nil, shared.ErrNotFound
	}
	return shipment, nil
}

// Create adds a shipment in the default status. Needs boss or higher.
func (s *ShipmentService) Create(ctx context.Context, p *identity.Principal, input CreateShipmentInput) (*logistics.Shipment, error) {
	if err := s.guard.RequireCollection(p, identity.RoleBoss); err != nil {
		return nil, err
	}
	tenantID, err := access.TenantOf(p)
	if err != nil {
		return nil, err
	}

	status, err := s.registry.GetDefault(ctx, tenantID, workflow.KindShipment)
	if err != nil {
		return nil, err
	}
	shipment, err := logistics.NewShipment(tenantID, p.ID, input.Number, status.ID, input.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, shipment, nil); err != nil {
		return nil, err
	}
	if err := s.shipments.Save(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("number", shipment.Number),
	)
	return shipment, nil
}

// Update changes number or comment. Needs manager or higher.
func (s *ShipmentService) Update(ctx context.Context, p *identity.Principal, id uuid.UUID, input UpdateShipmentInput) (*logistics.Shipment, error) {
	shipment, err := s.load(ctx, p, identity.RoleManager, id)
	if err != nil {
		return nil, err
	}

	number, comment := shipment.Number, shipment.Comment
	if input.Number != nil {
		number = *input.Number
	}
	if input.Comment != nil {
		comment = *input.Comment
	}
	if err := shipment.Update(number, comment); err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, shipment, &shipment.ID); err != nil {
		return nil, err
	}
	if err := s.shipments.Save(ctx, shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

func (s *ShipmentService) ensureNumberFree(ctx context.Context, shipment *logistics.Shipment, excludeID *uuid.UUID) error {
	exists, err := s.shipments.ExistsByNumber(ctx, shipment.TenantID, shipment.Number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errShipmentExists
	}
	return nil
}

// Transition changes the status. Needs warehouse or higher.
func (s *ShipmentService) Transition(ctx context.Context, p *identity.Principal, id uuid.UUID, input TransitionInput) (*logistics.Shipment, error) {
	shipment, err := s.load(ctx, p, identity.RoleWarehouse, id)
	if err != nil {
		return nil, err
	}
	fields := workflow.TransitionFields{Comment: input.Comment}
	if err := s.registry.Transition(ctx, shipment, input.StatusID, fields); err != nil {
		return nil, err
	}
	return shipment, nil
}

// Delete removes a shipment with its folders and files. Requests stay and
// lose the link. Needs admin or higher.
func (s *ShipmentService) Delete(ctx context.Context, p *identity.Principal, id uuid.UUID) error {
	shipment, err := s.load(ctx, p, identity.RoleAdmin, id)
	if err != nil {
		return err
	}

	files, err := s.attachments.FindShipmentFiles(ctx, shipment, nil)
	if err != nil {
		return err
	}
	folders, err := s.attachments.FindShipmentFolders(ctx, shipment)
	if err != nil {
		return err
	}
	for i := range folders {
		inFolder, err := s.attachments.FindShipmentFiles(ctx, shipment, &folders[i].ID)
		if err != nil {
			return err
		}
		files = append(files, inFolder...)
	}

	if err := s.shipments.Delete(ctx, shipment.TenantID, shipment.ID); err != nil {
		return err
	}
	for i := range files {
		removeObject(ctx, s.storage, s.logger, files[i].ObjectKey)
	}

	s.logger.Info("Shipment deleted",
		zap.String("tenant_id", shipment.TenantID.String()),
		zap.String("shipment_id", shipment.ID.String()),
		zap.Int("files", len(files)),
	)
	return nil
}

// removeObject deletes a stored body. The metadata is already gone, so a
// failure only leaves an orphan behind.
func removeObject(ctx context.Context, storage ObjectStorage, logger *zap.Logger, key string) {
	if key == "" {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete stored object", zap.String("key", key), zap.Error(err))
	}
}

// isNotFound reports whether err means the record does not exist for the caller
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrAuthorizationDenied)
}
