package service

import (
	"context"
	"fmt"

	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// CommentRepository provides persistence for comments.
type CommentRepository interface {
	Create(ctx context.Context, authorID string, req *model.CreateCommentRequest) (*model.Comment, error)
	ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

// CommentService exposes comment procedures. Reads are public, creating
// requires authentication, moderation (deleting any comment) is admin-only.
type CommentService struct {
	gate     *Gate
	comments CommentRepository
}

// NewCommentService constructs a new CommentService.
func NewCommentService(gate *Gate, comments CommentRepository) *CommentService {
	return &CommentService{gate: gate, comments: comments}
}

// ListByArticle returns an article's comments. Public.
func (s *CommentService) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*model.Comment, error) {
	comments, err := s.comments.ListByArticle(ctx, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments for article %s: %w", articleID, err)
	}
	return comments, nil
}

// Create adds a comment authored by the caller. Authenticated-only.
func (s *CommentService) Create(ctx context.Context, credential string, req *model.CreateCommentRequest) (*model.Comment, error) {
	subject, err := s.gate.Authenticated(ctx, credential)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.Validation("create comment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, subject.ID, req)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Delete removes any comment. Admin-only.
func (s *CommentService) Delete(ctx context.Context, credential, id string) error {
	if _, err := s.gate.Admin(ctx, credential); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}
