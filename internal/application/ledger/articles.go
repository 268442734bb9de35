package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/application/access"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/logistics/backend/internal/domain/identity"
	"github.com/logistics/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errArticleExists = shared.NewDomainError(shared.CodeValidationConflict, "Article with this name already exists")

// ArticleService manages the tenant's ledger articles. All operations need boss or higher.
type ArticleService struct {
	repo   finance.ArticleRepository
	guard  *access.Guard
	logger *zap.Logger
}

// NewArticleService creates the article service
func NewArticleService(repo finance.ArticleRepository, guard *access.Guard, logger *zap.Logger) *ArticleService {
	return &ArticleService{repo: repo, guard: guard, logger: logger}
}

func (s *ArticleService) tenant(p *identity.Principal) (uuid.UUID, error) {
	if err := s.guard.RequireCollection(p, identity.RoleBoss); err != nil {
		return uuid.Nil, err
	}
	return access.TenantOf(p)
}

// List returns articles by name
func (s *ArticleService) List(ctx context.Context, p *identity.Principal) ([]finance.Article, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllForTenant(ctx, tenantID)
}

// Get returns one article
func (s *ArticleService) Get(ctx context.Context, p *identity.Principal, id uuid.UUID) (*finance.Article, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDForTenant(ctx, tenantID, id)
}

// Create adds an article with a name unique in the tenant
func (s *ArticleService) Create(ctx context.Context, p *identity.Principal, name string) (*finance.Article, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	article, err := finance.NewArticle(tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, tenantID, article.Name, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, article); err != nil {
		return nil, err
	}
	s.logger.Info("Article created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("article_id", article.ID.String()),
	)
	return article, nil
}

// Rename changes the article name
func (s *ArticleService) Rename(ctx context.Context, p *identity.Principal, id uuid.UUID, name string) (*finance.Article, error) {
	tenantID, err := s.tenant(p)
	if err != nil {
		return nil, err
	}
	article, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := article.Rename(name); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, tenantID, article.Name, &article.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article. Entries keep their amounts and lose the article.
func (s *ArticleService) Delete(ctx context.Context, p *identity.Principal, id uuid.UUID) error {
	tenantID, err := s.tenant(p)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Article deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("article_id", id.String()),
	)
	return nil
}

func (s *ArticleService) ensureUnique(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errArticleExists
	}
	return nil
}
