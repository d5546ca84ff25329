package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pamphlets/pamphlets/internal/data/pgxutil"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
)

// UserRepo provides database operations for user accounts. The account ID
// is the subject ID issued by the identity provider.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = "id, email, role, created_at"

// UpsertFromIdentity creates the account on first login and refreshes the
// stored email and role on subsequent logins.
func (r *UserRepo) UpsertFromIdentity(
	ctx context.Context,
	identity domainauth.Identity,
	role domainauth.Role,
) (*model.User, error) {
	if strings.TrimSpace(identity.SubjectID) == "" {
		return nil, apperrors.Validation("subject ID is required")
	}
	if !role.Valid() {
		role = domainauth.RoleVisitor
	}

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (id, email, role, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, role = EXCLUDED.role
			RETURNING `+userColumns,
			identity.SubjectID,
			identity.Email,
			string(role),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("upsert user: %w", err))
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// LoadRole returns the stored role for a subject.
func (r *UserRepo) LoadRole(ctx context.Context, subjectID string) (domainauth.Role, error) {
	var role string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, subjectID).Scan(&role)
	})
	if err != nil {
		return "", apperrors.MapDBError(err)
	}
	return domainauth.Role(role), nil
}

// List retrieves users with pagination, newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+userColumns+`
			FROM users
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list users: %w", err))
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// DeleteAndReassign reassigns the user's articles and comments to the
// deleted-user sentinel and removes the user row, all in one transaction.
// The sentinel row is created on first use so the reassignment never
// violates the author foreign keys.
func (r *UserRepo) DeleteAndReassign(ctx context.Context, id string) error {
	if id == model.DeletedUserID {
		return apperrors.Validation("the deleted-user sentinel cannot be removed")
	}

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, role, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			model.DeletedUserID,
			model.DeletedUserEmail,
			string(domainauth.RoleVisitor),
			r.timeProvider.Now().UTC(),
		); err != nil {
			return fmt.Errorf("ensure sentinel user: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE articles SET author_id = $1 WHERE author_id = $2`,
			model.DeletedUserID, id,
		); err != nil {
			return fmt.Errorf("reassign articles: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE comments SET author_id = $1 WHERE author_id = $2`,
			model.DeletedUserID, id,
		); err != nil {
			return fmt.Errorf("reassign comments: %w", err)
		}

		ct, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFoundf("user %q not found", id)
		}
		return apperrors.MapDBError(err)
	}
	return nil
}
