package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCalculationRepository implements finance.CalculationRepository using GORM
type GormCalculationRepository struct {
	db *gorm.DB
}

// NewGormCalculationRepository creates a new GormCalculationRepository
func NewGormCalculationRepository(db *gorm.DB) *GormCalculationRepository {
	return &GormCalculationRepository{db: db}
}

// FindByIDForTenant finds a calculation within a tenant
func (r *GormCalculationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.ShipmentCalculation, error) {
	var model models.ShipmentCalculationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// GetOrCreate returns the calculation of a shipment. Concurrent first calls
// race on the shipment_id unique key and all read back the same row.
func (r *GormCalculationRepository) GetOrCreate(ctx context.Context, tenantID, shipmentID uuid.UUID) (*finance.ShipmentCalculation, error) {
	db := r.db.WithContext(ctx)

	fresh := &models.ShipmentCalculationModel{}
	fresh.FromDomain(finance.NewShipmentCalculation(tenantID, shipmentID))
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shipment_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, translateError(err, "")
	}

	var model models.ShipmentCalculationModel
	if err := db.Scopes(tenant.Scope(tenantID)).
		Where("shipment_id = ?", shipmentID).
		First(&model).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// Save creates or updates a calculation
func (r *GormCalculationRepository) Save(ctx context.Context, calc *finance.ShipmentCalculation) error {
	model := &models.ShipmentCalculationModel{}
	model.FromDomain(calc)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "Calculation for this shipment already exists")
	}
	return nil
}

// Ensure GormCalculationRepository implements finance.CalculationRepository
var _ finance.CalculationRepository = (*GormCalculationRepository)(nil)
