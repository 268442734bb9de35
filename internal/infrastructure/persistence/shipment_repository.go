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

// GormShipmentRepository implements logistics.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByIDForTenant finds a shipment within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*logistics.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindByID finds a shipment regardless of tenant
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindAll lists the shipments visible under scope
func (r *GormShipmentRepository) FindAll(ctx context.Context, scope identity.ReadScope, filter shared.Filter) ([]logistics.Shipment, error) {
	query := r.db.WithContext(ctx).Model(&models.ShipmentModel{}).
		Scopes(datascope.Apply(scope, datascope.Shipments))
	if filter.Search != "" {
		query = query.Where("LOWER(shipments.number) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if statusID, ok := filter.Filters["status_id"]; ok {
		query = query.Where("shipments.status_id = ?", statusID)
	}
	if id, ok := filter.Filters["id"]; ok {
		query = query.Where("shipments.id = ?", id)
	}

	var shipmentModels []models.ShipmentModel
	if err := query.
		Order(orderClause("shipments", filter.OrderBy, filter.OrderDir, ShipmentSortFields)).
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	shipments := make([]logistics.Shipment, len(shipmentModels))
	for i := range shipmentModels {
		shipments[i] = *shipmentModels[i].ToDomain()
	}
	return shipments, nil
}

// ExistsByNumber checks if a shipment number is taken within a tenant
func (r *GormShipmentRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ShipmentModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("number = ?", number)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *logistics.Shipment) error {
	model := models.ShipmentModelFromDomain(shipment)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Shipment with this number already exists")
}

// Delete removes a shipment within a tenant. Attached requests are detached by the database.
func (r *GormShipmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.ShipmentModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts shipments per status, including empty statuses
func (r *GormShipmentRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]logistics.StatusCount, error) {
	return countByStatus(r.db.WithContext(ctx), tenantID, workflow.KindShipment, "shipments")
}

// CountCreatedSince counts shipments created at or after since
func (r *GormShipmentRepository) CountCreatedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShipmentModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

type statusCountRow struct {
	StatusID uuid.UUID
	Code     string
	Name     string
	IsFinal  bool
	Count    int64
}

// countByStatus joins the status catalog of kind with table, a fixed table name
func countByStatus(db *gorm.DB, tenantID uuid.UUID, kind workflow.Kind, table string) ([]logistics.StatusCount, error) {
	var rows []statusCountRow
	err := db.Table("workflow_statuses").
		Select("workflow_statuses.id AS status_id, workflow_statuses.code, workflow_statuses.name, workflow_statuses.is_final, COUNT("+table+".id) AS count").
		Joins("LEFT JOIN "+table+" ON "+table+".status_id = workflow_statuses.id").
		Scopes(tenant.Column("workflow_statuses.tenant_id", tenantID)).
		Where("workflow_statuses.kind = ?", string(kind)).
		Group("workflow_statuses.id, workflow_statuses.code, workflow_statuses.name, workflow_statuses.is_final, workflow_statuses.sort_order").
		Order("workflow_statuses.sort_order ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make([]logistics.StatusCount, len(rows))
	for i, row := range rows {
		counts[i] = logistics.StatusCount(row)
	}
	return counts, nil
}

// Ensure GormShipmentRepository implements logistics.ShipmentRepository
var _ logistics.ShipmentRepository = (*GormShipmentRepository)(nil)
