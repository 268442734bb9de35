// Package datascope turns an identity.ReadScope into GORM conditions.
//
// The scope is computed by the access guard from the principal. This package
// only knows how each table relates to tenants, clients, owners and statuses:
//
//	db.Scopes(datascope.Apply(scope, datascope.Shipments)).Find(&shipments)
package datascope

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// Resource describes the scope columns of one table
type Resource struct {
	Table string
	// ClientColumn holds the owning client. Empty when client ownership is
	// derived from requests pointing at the row through RequestLink.
	ClientColumn string
	RequestLink  string
	StatusColumn string
	OwnerColumn  string
}

// Shipments are owned by a client through the requests attached to them
var Shipments = Resource{
	Table:        "shipments",
	RequestLink:  "shipment_id",
	StatusColumn: "status_id",
	OwnerColumn:  "created_by",
}

// Requests carry their client directly
var Requests = Resource{
	Table:        "requests",
	ClientColumn: "client_id",
	StatusColumn: "status_id",
	OwnerColumn:  "created_by",
}

func (r Resource) col(name string) string {
	return r.Table + "." + name
}

// Apply returns a GORM scope narrowing r's rows to scope. An empty scope matches nothing.
func Apply(scope identity.ReadScope, r Resource) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.Empty() {
			return db.Where("1 = 0")
		}
		if !scope.Unrestricted && scope.TenantID != uuid.Nil {
			db = db.Where(r.col("tenant_id")+" = ?", scope.TenantID)
		}
		if scope.OwnerID != nil {
			db = ownerCondition(db, r, *scope.OwnerID)
		}
		if scope.ClientID != nil {
			db = clientCondition(db, r, *scope.ClientID)
		}
		if len(scope.StatusCodes) > 0 && r.StatusColumn != "" {
			db = db.Where(r.col(r.StatusColumn)+" IN (SELECT id FROM workflow_statuses WHERE code IN ?)", scope.StatusCodes)
		}
		return db
	}
}

func ownerCondition(db *gorm.DB, r Resource, ownerID uuid.UUID) *gorm.DB {
	if r.ClientColumn != "" {
		return db.Where("("+r.col(r.OwnerColumn)+" = ? OR "+r.col(r.ClientColumn)+" = ?)", ownerID, ownerID)
	}
	return db.Where(r.col(r.OwnerColumn)+" = ?", ownerID)
}

func clientCondition(db *gorm.DB, r Resource, clientID uuid.UUID) *gorm.DB {
	if r.ClientColumn != "" {
		return db.Where(r.col(r.ClientColumn)+" = ?", clientID)
	}
	return db.Where(
		r.col("id")+" IN (SELECT "+r.RequestLink+" FROM requests WHERE client_id = ? AND "+r.RequestLink+" IS NOT NULL)",
		clientID,
	)
}
