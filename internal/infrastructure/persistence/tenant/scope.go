// Package tenant provides the GORM scope that pins queries to one tenant.
//
// Repositories receive the tenant explicitly from the application layer and
// apply it with Scope. A missing tenant poisons the statement instead of
// silently widening it.
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&shipments)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a tenant scoped statement has no tenant
var ErrTenantIDRequired = errors.New("tenant_id is required for a tenant scoped query")

// Scope filters by the tenant_id column of the statement's table
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return Column("tenant_id", tenantID)
}

// Column filters by a qualified tenant column, for joined queries
func Column(column string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(column+" = ?", tenantID)
	}
}
