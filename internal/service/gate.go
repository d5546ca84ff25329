package service

import (
	"context"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
	"github.com/pamphlets/pamphlets/internal/ports"
)

// SessionResolver resolves the opaque credential attached to a request.
// Implemented by AuthService; tests substitute doubles.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Gate is the privileged procedure layer's capability check. Every
// procedure re-derives the subject from the request credential through it
// before any business logic runs; nothing the client asserts is trusted.
type Gate struct {
	sessions SessionResolver
	roles    ports.RoleLoader
}

// NewGate constructs a Gate.
func NewGate(sessions SessionResolver, roles ports.RoleLoader) *Gate {
	return &Gate{sessions: sessions, roles: roles}
}

// Authenticated re-derives the subject from the credential. It fails with
// an Unauthenticated error when no valid session backs the credential.
func (g *Gate) Authenticated(ctx context.Context, credential string) (domainauth.Subject, error) {
	if credential == "" {
		return domainauth.Subject{}, apperrors.Unauthenticated("authentication required")
	}

	sess, err := g.sessions.GetSession(ctx, credential)
	if err != nil || sess == nil {
		return domainauth.Subject{}, apperrors.Unauthenticated("authentication required")
	}

	subject := sess.Subject()
	if !subject.RoleKnown() && g.roles != nil {
		// The session predates role assignment; consult local storage.
		if role, roleErr := g.roles.LoadRole(ctx, subject.ID); roleErr == nil {
			subject.Role = role
		}
	}
	return subject, nil
}

// Require re-derives the subject and checks it holds at least the given
// role. Missing subject yields Unauthenticated; an insufficient role
// yields Forbidden.
func (g *Gate) Require(ctx context.Context, credential string, role domainauth.Role) (domainauth.Subject, error) {
	subject, err := g.Authenticated(ctx, credential)
	if err != nil {
		return domainauth.Subject{}, err
	}
	if !subject.Role.AtLeast(role) {
		return domainauth.Subject{}, apperrors.Forbidden("insufficient permissions")
	}
	return subject, nil
}

// Admin re-derives the subject and requires the admin role.
func (g *Gate) Admin(ctx context.Context, credential string) (domainauth.Subject, error) {
	return g.Require(ctx, credential, domainauth.RoleAdmin)
}

// AuthorOrAdmin re-derives the subject and requires author or admin.
func (g *Gate) AuthorOrAdmin(ctx context.Context, credential string) (domainauth.Subject, error) {
	return g.Require(ctx, credential, domainauth.RoleAuthor)
}
