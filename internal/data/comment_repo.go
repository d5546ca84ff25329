package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pamphlets/pamphlets/internal/data/pgxutil"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// CommentRepo provides database operations for comments.
type CommentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCommentRepo creates a new CommentRepo with real time provider.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCommentRepoWithTimeProvider creates a new CommentRepo with a custom time provider (useful for tests).
func NewCommentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: tp}
}

const commentColumns = "id, article_id, author_id, body, created_at"

// Create inserts a new comment authored by authorID.
func (r *CommentRepo) Create(
	ctx context.Context,
	authorID string,
	req *model.CreateCommentRequest,
) (*model.Comment, error) {
	if req == nil {
		return nil, apperrors.Validation("create comment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Comment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO comments (id, article_id, author_id, body, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+commentColumns,
			uuid.New().String(),
			strings.TrimSpace(req.ArticleID),
			authorID,
			req.Body,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByArticle retrieves an article's comments with pagination, oldest first.
func (r *CommentRepo) ListByArticle(
	ctx context.Context,
	articleID string,
	limit, offset int,
) ([]*model.Comment, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+commentColumns+`
			FROM comments
			WHERE article_id = $1
			ORDER BY created_at ASC
			LIMIT $2 OFFSET $3`, articleID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list comments: %w", err))
	}

	res := make([]*model.Comment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete deletes a comment by ID.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if rows == 0 {
		return apperrors.NotFoundf("comment %q not found", id)
	}
	return nil
}
