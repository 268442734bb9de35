package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// TenantScopedModel adds the owning tenant and creator to BaseModel
type TenantScopedModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantEntity populates TenantScopedModel from domain TenantEntity
func (m *TenantScopedModel) FromDomainTenantEntity(t shared.TenantEntity) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// ToTenantEntity converts TenantScopedModel to domain TenantEntity
func (m *TenantScopedModel) ToTenantEntity() shared.TenantEntity {
	return tenantEntity(m.BaseModel, m.TenantID, m.CreatedBy)
}

// tenantEntity serves models that declare tenant_id themselves so it can
// take part in composite unique indexes
func tenantEntity(base BaseModel, tenantID uuid.UUID, createdBy *uuid.UUID) shared.TenantEntity {
	return shared.TenantEntity{
		BaseEntity: base.ToDomain(),
		TenantID:   tenantID,
		CreatedBy:  createdBy,
	}
}

// All lists every model in foreign key order, for AutoMigrate in tests
func All() []any {
	return []any{
		&TenantModel{},
		&UserModel{},
		&StatusModel{},
		&ShipmentModel{},
		&RequestModel{},
		&RequestFileModel{},
		&ShipmentFolderModel{},
		&ShipmentFileModel{},
		&ArticleModel{},
		&LedgerEntryModel{},
		&ShipmentCalculationModel{},
	}
}
