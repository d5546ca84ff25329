package service

import (
	"context"
	"fmt"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// ArticleRepository provides persistence for articles.
type ArticleRepository interface {
	Create(ctx context.Context, authorID string, req *model.CreateArticleRequest) (*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*model.Article, error)
	Update(ctx context.Context, id string, req model.UpdateArticleRequest) (*model.Article, error)
}

// ArticleService exposes article procedures. Reads are public; writes
// require the author tier and ownership (or admin).
type ArticleService struct {
	gate     *Gate
	articles ArticleRepository
}

// NewArticleService constructs a new ArticleService.
func NewArticleService(gate *Gate, articles ArticleRepository) *ArticleService {
	return &ArticleService{gate: gate, articles: articles}
}

// ListPublished returns published articles. Public.
func (s *ArticleService) ListPublished(ctx context.Context, limit, offset int) ([]*model.Article, error) {
	articles, err := s.articles.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	return articles, nil
}

// GetBySlug returns one article. Public for published articles; drafts are
// visible only to their author or an admin. Everyone else, guest or not,
// gets not-found so a draft slug does not leak its existence.
func (s *ArticleService) GetBySlug(ctx context.Context, credential, slug string) (*model.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", slug, err)
	}
	if article.Published {
		return article, nil
	}

	subject, err := s.gate.Authenticated(ctx, credential)
	if err != nil {
		if apperrors.IsUnauthenticated(err) {
			return nil, apperrors.NotFoundf("article %q not found", slug)
		}
		return nil, err
	}
	if subject.ID != article.AuthorID && subject.Role != domainauth.RoleAdmin {
		return nil, apperrors.NotFoundf("article %q not found", slug)
	}
	return article, nil
}

// Create creates an article owned by the caller. Author-or-admin.
func (s *ArticleService) Create(ctx context.Context, credential string, req *model.CreateArticleRequest) (*model.Article, error) {
	subject, err := s.gate.AuthorOrAdmin(ctx, credential)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("create article request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	article, err := s.articles.Create(ctx, subject.ID, req)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// Update edits an article. Author-or-admin; non-admins may only edit their own.
func (s *ArticleService) Update(ctx context.Context, credential, slug string, req model.UpdateArticleRequest) (*model.Article, error) {
	subject, err := s.gate.AuthorOrAdmin(ctx, credential)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", slug, err)
	}
	if subject.ID != article.AuthorID && subject.Role != domainauth.RoleAdmin {
		return nil, apperrors.Forbidden("insufficient permissions")
	}

	updated, err := s.articles.Update(ctx, article.ID, req)
	if err != nil {
		return nil, fmt.Errorf("update article %s: %w", slug, err)
	}
	return updated, nil
}
