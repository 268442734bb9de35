package identity

import (
	"github.com/google/uuid"
)

// Principal is the authenticated identity the authorization checks run against
type Principal struct {
	ID          uuid.UUID
	TenantID    *uuid.UUID
	Username    string
	Role        Role
	IsSuperuser bool
	Active      bool
}

// HasTenant reports whether the principal belongs to a tenant
func (p *Principal) HasTenant() bool {
	return p.TenantID != nil && *p.TenantID != uuid.Nil
}

// BelongsTo reports whether the principal belongs to tenantID
func (p *Principal) BelongsTo(tenantID uuid.UUID) bool {
	return p.HasTenant() && *p.TenantID == tenantID
}

// Dominates applies the superuser bypass before the rank comparison
func (p *Principal) Dominates(required Role) bool {
	if p.IsSuperuser {
		return true
	}
	return Dominates(p.Role, required)
}

// IsClient reports whether reads must be narrowed to the principal's own data
func (p *Principal) IsClient() bool {
	return !p.IsSuperuser && p.Role == RoleClient
}

// IsWarehouse reports whether the warehouse visibility rule applies
func (p *Principal) IsWarehouse() bool {
	return !p.IsSuperuser && p.Role == RoleWarehouse
}
