package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteBySubject removes every session belonging to a subject.
	// Used when an account is deleted so no live credential survives it.
	DeleteBySubject(ctx context.Context, subjectID string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// RoleLoader reads the authoritative role for a subject from local storage.
// The role facet of the auth state loads through it, independently of identity.
type RoleLoader interface {
	LoadRole(ctx context.Context, subjectID string) (domainauth.Role, error)
}

// IdentityDirectory manages identity records at the external provider.
// Only account deletion uses it; failures there must not block local cleanup.
type IdentityDirectory interface {
	DeleteIdentity(ctx context.Context, subjectID string) error
}
