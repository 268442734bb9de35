package logistics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*logistics.Shipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindAll(ctx context.Context, scope identity.ReadScope, filter shared.Filter) ([]logistics.Shipment, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, shipment *logistics.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]logistics.StatusCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.StatusCount), args.Error(1)
}

func (m *MockShipmentRepository) CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*logistics.Request, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Request), args.Error(1)
}

func (m *MockRequestRepository) FindAll(ctx context.Context, scope identity.ReadScope, filter logistics.RequestFilter) ([]logistics.Request, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]logistics.Request, error) {
	args := m.Called(ctx, tenantID, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.Request), args.Error(1)
}

func (m *MockRequestRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) Save(ctx context.Context, request *logistics.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockRequestRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]logistics.StatusCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.StatusCount), args.Error(1)
}

func (m *MockRequestRepository) CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByRole(ctx context.Context, tenantID uuid.UUID, role identity.Role) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindRequestFiles(ctx context.Context, request *logistics.Request) ([]logistics.RequestFile, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.RequestFile), args.Error(1)
}

func (m *MockAttachmentRepository) FindRequestFile(ctx context.Context, id uuid.UUID) (*logistics.RequestFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.RequestFile), args.Error(1)
}

func (m *MockAttachmentRepository) SaveRequestFile(ctx context.Context, file *logistics.RequestFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockAttachmentRepository) DeleteRequestFile(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindShipmentFolders(ctx context.Context, shipment *logistics.Shipment) ([]logistics.ShipmentFolder, error) {
	args := m.Called(ctx, shipment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.ShipmentFolder), args.Error(1)
}

func (m *MockAttachmentRepository) FindShipmentFolder(ctx context.Context, id uuid.UUID) (*logistics.ShipmentFolder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.ShipmentFolder), args.Error(1)
}

func (m *MockAttachmentRepository) SaveShipmentFolder(ctx context.Context, folder *logistics.ShipmentFolder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockAttachmentRepository) DeleteShipmentFolder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindShipmentFiles(ctx context.Context, shipment *logistics.Shipment, folderID *uuid.UUID) ([]logistics.ShipmentFile, error) {
	args := m.Called(ctx, shipment, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.ShipmentFile), args.Error(1)
}

func (m *MockAttachmentRepository) FindShipmentFile(ctx context.Context, id uuid.UUID) (*logistics.ShipmentFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.ShipmentFile), args.Error(1)
}

func (m *MockAttachmentRepository) SaveShipmentFile(ctx context.Context, file *logistics.ShipmentFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockAttachmentRepository) DeleteShipmentFile(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) EnsureBaseline(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockRegistry) GetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Status), args.Error(1)
}

func (m *MockRegistry) Transition(ctx context.Context, target workflow.Transitionable, statusID uuid.UUID, fields workflow.TransitionFields) error {
	args := m.Called(ctx, target, statusID, fields)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) FileUploaded(ctx context.Context, entity string, size int64) {
	m.Called(ctx, entity, size)
}
