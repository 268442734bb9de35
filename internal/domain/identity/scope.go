package identity

import (
	"github.com/google/uuid"
)

// ReadScope narrows list queries to what a principal may see. It is applied
// on top of the collection check, never instead of it.
type ReadScope struct {
	// Unrestricted skips tenant filtering (superusers)
	Unrestricted bool
	TenantID     uuid.UUID
	// ClientID limits rows to those linked to the client's own requests
	ClientID *uuid.UUID
	// OwnerID limits rows to those the principal created or owns.
	// Set for principals without a tenant.
	OwnerID *uuid.UUID
	// StatusCodes limits shipments and requests to these status codes
	StatusCodes []string
}

// Empty reports whether the scope has no tenant and no owner, i.e. matches nothing
func (s ReadScope) Empty() bool {
	return !s.Unrestricted && s.TenantID == uuid.Nil && s.OwnerID == nil
}
