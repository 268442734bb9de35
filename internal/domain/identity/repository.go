package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindAll(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindActiveByRole(ctx context.Context, tenantID uuid.UUID, role Role) ([]User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// FindNames returns display names keyed by user ID; unknown IDs are absent
	FindNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	Save(ctx context.Context, user *User) error
}
