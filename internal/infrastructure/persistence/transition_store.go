package persistence

import (
	"context"
	"fmt"

	"github.com/logistics/backend/internal/domain/logistics"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTransitionStore implements workflow.TransitionStore. The status and
// the fields changed with it are written by one UPDATE.
type GormTransitionStore struct {
	db *gorm.DB
}

// NewGormTransitionStore creates a new GormTransitionStore
func NewGormTransitionStore(db *gorm.DB) *GormTransitionStore {
	return &GormTransitionStore{db: db}
}

// SaveTransition persists the transitioned state of target
func (s *GormTransitionStore) SaveTransition(ctx context.Context, target workflow.Transitionable) error {
	var (
		model   any
		columns map[string]any
	)
	switch t := target.(type) {
	case *logistics.Shipment:
		model = &models.ShipmentModel{}
		columns = map[string]any{
			"status_id":  t.StatusID,
			"comment":    t.Comment,
			"updated_at": t.UpdatedAt,
		}
	case *logistics.Request:
		model = &models.RequestModel{}
		columns = map[string]any{
			"status_id":     t.StatusID,
			"comment":       t.Comment,
			"actual_weight": t.ActualWeight,
			"actual_volume": t.ActualVolume,
			"updated_at":    t.UpdatedAt,
		}
	default:
		return fmt.Errorf("unsupported transition target %T", target)
	}

	result := s.db.WithContext(ctx).Model(model).
		Scopes(tenant.Scope(target.GetTenantID())).
		Where("id = ?", target.GetID()).
		Updates(columns)
	if result.Error != nil {
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTransitionStore implements workflow.TransitionStore
var _ workflow.TransitionStore = (*GormTransitionStore)(nil)
