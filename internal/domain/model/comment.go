package model

import (
	"strings"
	"time"

	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	ArticleID string    `db:"article_id" json:"article_id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateCommentRequest carries input for creating a comment.
type CreateCommentRequest struct {
	ArticleID string `json:"article_id"`
	Body      string `json:"body"`
}

// Validate checks required fields.
func (r *CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.ArticleID) == "" {
		return apperrors.ValidationField("article_id", "Article is required.")
	}
	if strings.TrimSpace(r.Body) == "" {
		return apperrors.ValidationField("body", "Comment body is required.")
	}
	return nil
}
