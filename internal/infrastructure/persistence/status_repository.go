package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	statusConflictMsg = "Status with this code or name already exists"
	defaultRaceMsg    = "Default status changed concurrently"
)

// GormStatusRepository implements workflow.StatusRepository using GORM
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// FindByID finds a status within a tenant
func (r *GormStatusRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Status, error) {
	var model models.StatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindByKind lists the statuses of one kind ordered by position, then name
func (r *GormStatusRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) ([]workflow.Status, error) {
	var statusModels []models.StatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("kind = ?", string(kind)).
		Order("sort_order ASC, name ASC").
		Find(&statusModels).Error; err != nil {
		return nil, err
	}
	statuses := make([]workflow.Status, len(statusModels))
	for i := range statusModels {
		statuses[i] = *statusModels[i].ToDomain()
	}
	return statuses, nil
}

// FindDefault finds the default status of a kind
func (r *GormStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error) {
	var model models.StatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("kind = ? AND is_default = ?", string(kind), true).
		First(&model).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// Create inserts a status. A default status replaces the previous default
// of its kind in the same transaction, so a lost race leaves no row behind.
func (r *GormStatusRepository) Create(ctx context.Context, status *workflow.Status) error {
	model := models.StatusModelFromDomain(status)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.IsDefault {
			if err := clearDefault(tx, status.TenantID, status.Kind, status.ID); err != nil {
				return err
			}
		}
		return translateError(tx.Create(model).Error, statusConflictMsg)
	})
}

// Update writes code, name, final flag and order. The default flag is left alone.
func (r *GormStatusRepository) Update(ctx context.Context, status *workflow.Status) error {
	result := r.db.WithContext(ctx).Model(&models.StatusModel{}).
		Scopes(tenant.Scope(status.TenantID)).
		Where("id = ?", status.ID).
		Updates(map[string]any{
			"code":       status.Code,
			"name":       status.Name,
			"name_key":   status.NameKey(),
			"is_final":   status.IsFinal,
			"sort_order": status.Order,
			"updated_at": status.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, statusConflictMsg)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the status unless a shipment or request references it or
// it is the current default. The foreign keys restrict deletion as well, for
// writers racing the count.
func (r *GormStatusRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.StatusModel
		if err := tx.Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
			return translateError(err, "")
		}
		refs, err := countStatusReferences(tx, tenantID, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return shared.NewDomainError(shared.CodeReferentialIntegrity, "Status is used by shipments or requests")
		}
		if model.IsDefault {
			return workflow.ErrDefaultStatusDelete
		}
		result := tx.Scopes(tenant.Scope(tenantID)).
			Where("is_default = ?", false).
			Delete(&models.StatusModel{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error, "")
		}
		if result.RowsAffected == 0 {
			return workflow.ErrDefaultStatusDelete
		}
		return nil
	})
}

// CountReferences counts shipments and requests currently in the status
func (r *GormStatusRepository) CountReferences(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	return countStatusReferences(r.db.WithContext(ctx), tenantID, id)
}

func countStatusReferences(db *gorm.DB, tenantID, id uuid.UUID) (int64, error) {
	var shipments, requests int64
	if err := db.Model(&models.ShipmentModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status_id = ?", id).
		Count(&shipments).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.RequestModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status_id = ?", id).
		Count(&requests).Error; err != nil {
		return 0, err
	}
	return shipments + requests, nil
}

// SetDefault clears the current default of (tenant, kind) and marks id in
// one transaction. A concurrent SetDefault loses on the partial unique
// index and gets a conflict.
func (r *GormStatusRepository) SetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.StatusModel
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Where("kind = ?", string(kind)).
			First(&target, "id = ?", id).Error; err != nil {
			return translateError(err, "")
		}

		if err := clearDefault(tx, tenantID, kind, id); err != nil {
			return err
		}
		if err := tx.Model(&models.StatusModel{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_default": true, "updated_at": time.Now()}).Error; err != nil {
			return translateError(err, defaultRaceMsg)
		}
		return nil
	})
}

// clearDefault unsets the default of (tenant, kind) unless it is keep
func clearDefault(tx *gorm.DB, tenantID uuid.UUID, kind workflow.Kind, keep uuid.UUID) error {
	err := tx.Model(&models.StatusModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("kind = ? AND is_default = ? AND id <> ?", string(kind), true, keep).
		Updates(map[string]any{"is_default": false, "updated_at": time.Now()}).Error
	return translateError(err, defaultRaceMsg)
}

// InsertMissing inserts the statuses absent from the tenant and returns how
// many rows were added. Existing rows are never modified. A default flag is
// kept only when the kind has no default yet.
func (r *GormStatusRepository) InsertMissing(ctx context.Context, tenantID uuid.UUID, statuses []workflow.Status) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var defaultKinds []string
		if err := tx.Model(&models.StatusModel{}).
			Scopes(tenant.Scope(tenantID)).
			Where("is_default = ?", true).
			Pluck("kind", &defaultKinds).Error; err != nil {
			return err
		}
		hasDefault := make(map[string]bool, len(defaultKinds))
		for _, k := range defaultKinds {
			hasDefault[k] = true
		}

		for i := range statuses {
			model := models.StatusModelFromDomain(&statuses[i])
			model.TenantID = tenantID
			if model.IsDefault && hasDefault[model.Kind] {
				model.IsDefault = false
			}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				inserted++
				if model.IsDefault {
					hasDefault[model.Kind] = true
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err, statusConflictMsg)
	}
	return inserted, nil
}

// UpdateOrder assigns positions 1..n following ids
func (r *GormStatusRepository) UpdateOrder(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for i, id := range ids {
			result := tx.Model(&models.StatusModel{}).
				Scopes(tenant.Scope(tenantID)).
				Where("kind = ? AND id = ?", string(kind), id).
				Updates(map[string]any{"sort_order": i + 1, "updated_at": now})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

// Ensure GormStatusRepository implements workflow.StatusRepository
var _ workflow.StatusRepository = (*GormStatusRepository)(nil)
