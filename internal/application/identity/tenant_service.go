package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BaselineSeeder gives a new company its default statuses
type BaselineSeeder interface {
	EnsureBaseline(ctx context.Context, tenantID uuid.UUID) error
}

// TenantService manages companies
type TenantService struct {
	tenantRepo identity.TenantRepository
	seeder     BaselineSeeder
	guard      *access.Guard
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo identity.TenantRepository, seeder BaselineSeeder, guard *access.Guard, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		seeder:     seeder,
		guard:      guard,
		logger:     logger,
	}
}

// Create adds a company and seeds its statuses. Superuser only.
func (s *TenantService) Create(ctx context.Context, p *identity.Principal, input CreateTenantInput) (*identity.Tenant, error) {
	if err := s.requireSuperuser(p); err != nil {
		return nil, err
	}
	tenant, err := identity.NewTenant(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	// the company exists even if seeding fails; GetDefault seeds lazily later
	if err := s.seeder.EnsureBaseline(ctx, tenant.ID); err != nil {
		s.logger.Error("Failed to seed baseline statuses",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("name", tenant.Name))
	return tenant, nil
}

// List returns all companies. Superuser only.
func (s *TenantService) List(ctx context.Context, p *identity.Principal) ([]identity.Tenant, error) {
	if err := s.requireSuperuser(p); err != nil {
		return nil, err
	}
	return s.tenantRepo.FindAll(ctx)
}

// Get returns the caller's company, or any company for a superuser
func (s *TenantService) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*identity.Tenant, error) {
	if err := s.guard.RequireCollection(p, identity.RoleClient); err != nil {
		return nil, err
	}
	if !p.IsSuperuser && !p.BelongsTo(id) {
		return nil, shared.ErrAuthorizationDenied
	}
	return s.tenantRepo.FindByID(ctx, id)
}

func (s *TenantService) requireSuperuser(p *identity.Principal) error {
	if p == nil || !p.Active || !p.IsSuperuser {
		return shared.ErrAuthorizationDenied
	}
	return nil
}
