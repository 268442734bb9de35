package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/logistics/backend/internal/infrastructure/persistence/datascope"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormRequestRepository implements logistics.RequestRepository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByIDForTenant finds a request within a tenant
func (r *GormRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*logistics.Request, error) {
	var model models.RequestModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindByID finds a request regardless of tenant
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Request, error) {
	var model models.RequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindAll lists the requests visible under scope
func (r *GormRequestRepository) FindAll(ctx context.Context, scope identity.ReadScope, filter logistics.RequestFilter) ([]logistics.Request, error) {
	query := r.db.WithContext(ctx).Model(&models.RequestModel{}).
		Scopes(datascope.Apply(scope, datascope.Requests))
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(requests.description) LIKE ? OR LOWER(requests.warehouse_number) LIKE ?)", pattern, pattern)
	}
	if filter.ShipmentID != nil {
		query = query.Where("requests.shipment_id = ?", *filter.ShipmentID)
	}
	for key, value := range filter.Filters {
		switch key {
		case "id":
			query = query.Where("requests.id = ?", value)
		case "status_id":
			query = query.Where("requests.status_id = ?", value)
		case "client_id":
			query = query.Where("requests.client_id = ?", value)
		case "manager_id":
			query = query.Where("requests.manager_id = ?", value)
		}
	}

	var requestModels []models.RequestModel
	if err := query.
		Order(orderClause("requests", filter.OrderBy, filter.OrderDir, RequestSortFields)).
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return requestsToDomain(requestModels), nil
}

// FindByShipment lists the requests attached to a shipment by number
func (r *GormRequestRepository) FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]logistics.Request, error) {
	var requestModels []models.RequestModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("shipment_id = ?", shipmentID).
		Order("number ASC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return requestsToDomain(requestModels), nil
}

// NextNumber returns the tenant's highest request number plus one. Two
// writers may read the same value; the unique (tenant_id, number) index
// rejects the second insert.
func (r *GormRequestRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&models.RequestModel{}).
		Scopes(tenant.Scope(tenantID)).
		Select("COALESCE(MAX(number), 0) + 1").
		Scan(&next).Error
	return next, err
}

// Save creates or updates a request
func (r *GormRequestRepository) Save(ctx context.Context, request *logistics.Request) error {
	model := models.RequestModelFromDomain(request)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Request number is already taken")
}

// Delete removes a request within a tenant. File records go with it through the foreign key.
func (r *GormRequestRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.RequestModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts requests per status, including empty statuses
func (r *GormRequestRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]logistics.StatusCount, error) {
	return countByStatus(r.db.WithContext(ctx), tenantID, workflow.KindRequest, "requests")
}

// CountCreatedSince counts requests created at or after since
func (r *GormRequestRepository) CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RequestModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func requestsToDomain(requestModels []models.RequestModel) []logistics.Request {
	requests := make([]logistics.Request, len(requestModels))
	for i := range requestModels {
		requests[i] = *requestModels[i].ToDomain()
	}
	return requests
}

// Ensure GormRequestRepository implements logistics.RequestRepository
var _ logistics.RequestRepository = (*GormRequestRepository)(nil)
