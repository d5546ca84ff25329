package model

import (
	"strings"
	"time"

	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// Article is a published or draft pamphlet owned by an author.
type Article struct {
	ID        string     `db:"id" json:"id"`
	AuthorID  string     `db:"author_id" json:"author_id"`
	Title     string     `db:"title" json:"title"`
	Slug      string     `db:"slug" json:"slug"`
	Body      string     `db:"body" json:"body"`
	Published bool       `db:"published" json:"published"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CreateArticleRequest carries input for creating an article.
type CreateArticleRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// Validate checks required fields.
func (r *CreateArticleRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationField("title", "Title is required.")
	}
	if strings.TrimSpace(r.Slug) == "" {
		return apperrors.ValidationField("slug", "Slug is required.")
	}
	if strings.ContainsAny(r.Slug, " /") {
		return apperrors.ValidationField("slug", "Slug must not contain spaces or slashes.")
	}
	return nil
}

// UpdateArticleRequest carries optional updates; nil fields are unchanged.
type UpdateArticleRequest struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// Validate checks provided fields.
func (r UpdateArticleRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return apperrors.ValidationField("title", "Title must not be empty.")
	}
	return nil
}
