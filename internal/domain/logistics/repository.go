package logistics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
)

// StatusCount is the number of records in one status
type StatusCount struct {
	StatusID uuid.UUID
	Code     string
	Name     string
	IsFinal  bool
	Count    int64
}

// ShipmentRepository persists shipments
type ShipmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Shipment, error)
	// FindByID ignores tenants; callers compare ownership themselves
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindAll(ctx context.Context, scope identity.ReadScope, filter shared.Filter) ([]Shipment, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, shipment *Shipment) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// RequestFilter narrows request listings
type RequestFilter struct {
	shared.Filter
	ShipmentID *uuid.UUID
}

// RequestRepository persists requests
type RequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Request, error)
	// FindByID ignores tenants; callers compare ownership themselves
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	FindAll(ctx context.Context, scope identity.ReadScope, filter RequestFilter) ([]Request, error)
	FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]Request, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error)
	Save(ctx context.Context, request *Request) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// AttachmentRepository persists file and folder records. Single-record
// finders load the parent so the record can resolve its tenant.
type AttachmentRepository interface {
	FindRequestFiles(ctx context.Context, request *Request) ([]RequestFile, error)
	FindRequestFile(ctx context.Context, id uuid.UUID) (*RequestFile, error)
	SaveRequestFile(ctx context.Context, file *RequestFile) error
	DeleteRequestFile(ctx context.Context, id uuid.UUID) error

	FindShipmentFolders(ctx context.Context, shipment *Shipment) ([]ShipmentFolder, error)
	FindShipmentFolder(ctx context.Context, id uuid.UUID) (*ShipmentFolder, error)
	SaveShipmentFolder(ctx context.Context, folder *ShipmentFolder) error
	// DeleteShipmentFolder removes the folder and its files
	DeleteShipmentFolder(ctx context.Context, id uuid.UUID) error

	FindShipmentFiles(ctx context.Context, shipment *Shipment, folderID *uuid.UUID) ([]ShipmentFile, error)
	FindShipmentFile(ctx context.Context, id uuid.UUID) (*ShipmentFile, error)
	SaveShipmentFile(ctx context.Context, file *ShipmentFile) error
	DeleteShipmentFile(ctx context.Context, id uuid.UUID) error
}
