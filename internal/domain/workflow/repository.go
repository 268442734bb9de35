package workflow

import (
	"context"

	"github.com/google/uuid"
)

// StatusRepository persists workflow statuses
type StatusRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Status, error)
	FindByKind(ctx context.Context, tenantID uuid.UUID, kind Kind) ([]Status, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID, kind Kind) (*Status, error)
	// Create inserts the status. With IsDefault set it also clears the
	// previous default of (tenant, kind), atomically.
	Create(ctx context.Context, status *Status) error
	Update(ctx context.Context, status *Status) error

	// Delete removes the status unless a shipment or request references it
	// or it is the current default
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountReferences counts shipments and requests currently in the status
	CountReferences(ctx context.Context, tenantID, id uuid.UUID) (int64, error)

	// SetDefault clears the current default of (tenant, kind) and marks id, atomically
	SetDefault(ctx context.Context, tenantID uuid.UUID, kind Kind, id uuid.UUID) error

	// InsertMissing inserts each status whose (tenant, kind, code) is absent.
	// A default flag is kept only when the kind has no default yet.
	InsertMissing(ctx context.Context, tenantID uuid.UUID, statuses []Status) (int, error)

	// UpdateOrder assigns order 1..n following ids
	UpdateOrder(ctx context.Context, tenantID uuid.UUID, kind Kind, ids []uuid.UUID) error
}
