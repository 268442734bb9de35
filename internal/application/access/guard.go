// Package access answers who may touch what. Tenant isolation is checked
// beneath every role check, and a failed check never reveals whether the
// object exists.
package access

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
)

// AuthContext is the authorization contract consumed by services and handlers
type AuthContext interface {
	Authorize(p *identity.Principal, required identity.Role) bool
	AuthorizeObject(p *identity.Principal, required identity.Role, target shared.TenantScoped) bool
}

// Guard implements AuthContext and builds read scopes
type Guard struct {
	warehouseStatuses []string
}

// NewGuard creates a Guard. warehouseStatuses narrows what warehouse staff
// list; an empty slice leaves them unrestricted.
func NewGuard(warehouseStatuses []string) *Guard {
	codes := make([]string, 0, len(warehouseStatuses))
	for _, c := range warehouseStatuses {
		if c != "" {
			codes = append(codes, c)
		}
	}
	return &Guard{warehouseStatuses: codes}
}

// Authorize is the collection check: an active principal whose role
// dominates required. Superusers always pass.
func (g *Guard) Authorize(p *identity.Principal, required identity.Role) bool {
	if p == nil || !p.Active {
		return false
	}
	return p.Dominates(required)
}

// AuthorizeObject adds the tenant floor to Authorize. A target that cannot
// resolve its tenant is denied, superuser or not.
func (g *Guard) AuthorizeObject(p *identity.Principal, required identity.Role, target shared.TenantScoped) bool {
	if !g.Authorize(p, required) || isNil(target) {
		return false
	}
	tenantID := target.GetTenantID()
	if tenantID == uuid.Nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	return p.BelongsTo(tenantID)
}

// RequireCollection returns ErrAuthorizationDenied when Authorize fails
func (g *Guard) RequireCollection(p *identity.Principal, required identity.Role) error {
	if !g.Authorize(p, required) {
		return shared.ErrAuthorizationDenied
	}
	return nil
}

// RequireObject returns ErrAuthorizationDenied when AuthorizeObject fails
func (g *Guard) RequireObject(p *identity.Principal, required identity.Role, target shared.TenantScoped) error {
	if !g.AuthorizeObject(p, required, target) {
		return shared.ErrAuthorizationDenied
	}
	return nil
}

// ReadScope narrows list queries for p. An unauthenticated or inactive
// principal gets an empty scope that matches nothing.
func (g *Guard) ReadScope(p *identity.Principal) identity.ReadScope {
	if p == nil || !p.Active {
		return identity.ReadScope{}
	}
	if p.IsSuperuser {
		return identity.ReadScope{Unrestricted: true}
	}
	if !p.HasTenant() {
		id := p.ID
		return identity.ReadScope{OwnerID: &id}
	}

	scope := identity.ReadScope{TenantID: *p.TenantID}
	if p.IsClient() {
		id := p.ID
		scope.ClientID = &id
	}
	if p.IsWarehouse() && len(g.warehouseStatuses) > 0 {
		scope.StatusCodes = append([]string(nil), g.warehouseStatuses...)
	}
	return scope
}

// TenantOf returns the principal's tenant for writes, which always need one
func TenantOf(p *identity.Principal) (uuid.UUID, error) {
	if p == nil || !p.HasTenant() {
		return uuid.Nil, shared.NewDomainError(shared.CodeAuthorizationDenied, "User is not attached to a company")
	}
	return *p.TenantID, nil
}

// isNil catches typed nil pointers hidden inside the interface
func isNil(target shared.TenantScoped) bool {
	if target == nil {
		return true
	}
	v := reflect.ValueOf(target)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Ensure Guard implements AuthContext
var _ AuthContext = (*Guard)(nil)
