package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pamphlets/pamphlets/internal/data/pgxutil"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// ArticleRepo provides database operations for articles.
type ArticleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewArticleRepo creates a new ArticleRepo with real time provider.
func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewArticleRepoWithTimeProvider creates a new ArticleRepo with a custom time provider (useful for tests).
func NewArticleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ArticleRepo {
	return &ArticleRepo{DB: db, timeProvider: tp}
}

const articleColumns = "id, author_id, title, slug, body, published, created_at, updated_at"

// Create inserts a new article owned by authorID.
func (r *ArticleRepo) Create(
	ctx context.Context,
	authorID string,
	req *model.CreateArticleRequest,
) (*model.Article, error) {
	if req == nil {
		return nil, apperrors.Validation("create article request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Article
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO articles (id, author_id, title, slug, body, published, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+articleColumns,
			uuid.New().String(),
			authorID,
			strings.TrimSpace(req.Title),
			strings.TrimSpace(req.Slug),
			req.Body,
			req.Published,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetBySlug retrieves an article by slug.
func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var out model.Article
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListPublished retrieves published articles with pagination, newest first.
func (r *ArticleRepo) ListPublished(ctx context.Context, limit, offset int) ([]*model.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Article
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+articleColumns+`
			FROM articles
			WHERE published
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Article])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list published articles: %w", err))
	}

	res := make([]*model.Article, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an article; nil fields are unchanged.
func (r *ArticleRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateArticleRequest,
) (*model.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var out model.Article
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if setClause == "" {
			rows, err := conn.Query(ctx,
				`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
			return e
		}
		args = append(args, id)
		query := "UPDATE articles SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + articleColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Article])
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an article.
func (r *ArticleRepo) buildUpdateClause(req model.UpdateArticleRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Body != nil {
		setParts = append(setParts, fmt.Sprintf("body = $%d", nextIdx()))
		args = append(args, *req.Body)
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", nextIdx()))
		args = append(args, *req.Published)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}
