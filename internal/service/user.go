package service

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/domain/model"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
	"github.com/pamphlets/pamphlets/internal/ports"
)

// UserRepository provides persistence for accounts and the reassignment
// performed during deletion.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	// DeleteAndReassign transfers the subject's articles and comments to
	// the sentinel deleted-user identity and removes the user row, all in
	// one transaction.
	DeleteAndReassign(ctx context.Context, id string) error
}

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Gate      *Gate
	Users     UserRepository
	Sessions  ports.SessionStore
	Directory ports.IdentityDirectory
	Logger    *slog.Logger
}

// UserService exposes account procedures behind the capability gate.
type UserService struct {
	gate      *Gate
	users     UserRepository
	sessions  ports.SessionStore
	directory ports.IdentityDirectory
	logger    *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		gate:      opts.Gate,
		users:     opts.Users,
		sessions:  opts.Sessions,
		directory: opts.Directory,
		logger:    logger,
	}
}

// Me returns the caller's account. Authenticated-only.
func (s *UserService) Me(ctx context.Context, credential string) (*model.User, error) {
	subject, err := s.gate.Authenticated(ctx, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", subject.ID, err)
	}
	return user, nil
}

// List returns accounts. Admin-only.
func (s *UserService) List(ctx context.Context, credential string, limit, offset int) ([]*model.User, error) {
	if _, err := s.gate.Admin(ctx, credential); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete removes an account. Callers may delete themselves; deleting
// anyone else is admin-only. Published content and comments authored by
// the subject are reassigned to the sentinel deleted-user identity before
// the identity record is removed, then the subject's sessions are revoked
// and deletion of the identity at the external provider is attempted.
// Provider failure is logged and swallowed: local consistency is the
// correctness boundary, and the operation still reports success.
func (s *UserService) Delete(ctx context.Context, credential, targetID string) error {
	subject, err := s.gate.Authenticated(ctx, credential)
	if err != nil {
		return err
	}
	if subject.ID != targetID && subject.Role != domainauth.RoleAdmin {
		return apperrors.Forbidden("insufficient permissions")
	}
	if targetID == model.DeletedUserID {
		return apperrors.Validation("the deleted-user sentinel cannot be removed")
	}

	if err := s.users.DeleteAndReassign(ctx, targetID); err != nil {
		return fmt.Errorf("delete user %s: %w", targetID, err)
	}

	if err := s.sessions.DeleteBySubject(ctx, targetID); err != nil {
		// Sessions expire on their own; don't fail a completed deletion.
		s.logger.WarnContext(ctx, "revoke sessions after account deletion failed",
			"subject_id", targetID, "error", err)
	}

	if s.directory != nil {
		if err := s.directory.DeleteIdentity(ctx, targetID); err != nil {
			depErr := apperrors.ExternalDependency("delete identity at provider", err)
			s.logger.WarnContext(ctx, "external identity deletion failed; local deletion kept",
				"subject_id", targetID, "error", depErr)
		}
	}

	s.logger.InfoContext(ctx, "account deleted", "subject_id", targetID, "deleted_by", subject.ID)
	return nil
}
