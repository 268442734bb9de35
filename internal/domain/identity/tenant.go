package identity

import (
	"strings"
	"unicode/utf8"

	"github.com/logistics/backend/internal/domain/shared"
)

// Tenant is a company. Every scoped record belongs to exactly one tenant.
type Tenant struct {
	shared.BaseEntity
	Name string
}

// NewTenant creates a tenant
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Company name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Company name cannot exceed 255 characters")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
