package finance

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
)

// Article is a tenant's category for ledger entries
type Article struct {
	shared.TenantEntity
	Name string
}

// NewArticle creates an article
func NewArticle(tenantID uuid.UUID, name string) (*Article, error) {
	a := &Article{TenantEntity: shared.NewTenantEntity(tenantID)}
	if err := a.Rename(name); err != nil {
		return nil, err
	}
	return a, nil
}

// Rename validates and sets the article name
func (a *Article) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Article name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Article name cannot exceed 255 characters")
	}
	a.Name = name
	a.Touch()
	return nil
}
