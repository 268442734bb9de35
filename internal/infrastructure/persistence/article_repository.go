package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/persistence/models"
	"github.com/logistics/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormArticleRepository implements finance.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByIDForTenant finds an article within a tenant
func (r *GormArticleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists articles ordered by name
func (r *GormArticleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.Article, error) {
	var articleModels []models.ArticleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&articleModels).Error; err != nil {
		return nil, err
	}
	articles := make([]finance.Article, len(articleModels))
	for i := range articleModels {
		articles[i] = *articleModels[i].ToDomain()
	}
	return articles, nil
}

// ExistsByName checks for a case-insensitive name clash, ignoring excludeID
func (r *GormArticleRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an article
func (r *GormArticleRepository) Save(ctx context.Context, article *finance.Article) error {
	model := &models.ArticleModel{}
	model.FromDomain(article)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "Article with this name already exists")
	}
	return nil
}

// Delete removes an article; entries referencing it keep no article
func (r *GormArticleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.ArticleModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormArticleRepository implements finance.ArticleRepository
var _ finance.ArticleRepository = (*GormArticleRepository)(nil)
