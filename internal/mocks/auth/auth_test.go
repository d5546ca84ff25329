package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	authURL2, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "https://mock-idp/auth", authURL2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{
		AuthURL:     "https://custom-idp/login",
		StatePrefix: "custom-state",
		NoncePrefix: "custom-nonce",
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{})

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login", authURL)
	assert.Equal(t, "custom-state-1", state)
	assert.Equal(t, "custom-nonce-1", nonce)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{})

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.SubjectID)
	assert.Equal(t, "mock.user@example.com", identity.Email)
	assert.Equal(t, []string{"readers"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomUser(t *testing.T) {
	provider := &MockAuthProvider{DefaultUser: domainauth.Identity{
		SubjectID: "custom-user",
		Email:     "custom@example.com",
		Groups:    []string{"admins", "readers"},
	}}

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "custom-user", identity.SubjectID)
	assert.Equal(t, "custom@example.com", identity.Email)
	assert.Equal(t, []string{"admins", "readers"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{
				SubjectID: "func-user",
				Email:     "func@example.com",
			}, nil
		},
	}

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{})

	require.NoError(t, err)
	assert.Equal(t, "func-user", identity.SubjectID)
	assert.Equal(t, "func@example.com", identity.Email)
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		SubjectID: "subject-123",
		Email:     "reader@example.com",
		Role:      domainauth.RoleAuthor,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.SubjectID, retrieved.SubjectID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestMemorySessionStore_GetNonExistent(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_GetEmptyID(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_SaveEmptyID(t *testing.T) {
	store := NewMemorySessionStore()

	err := store.Save(context.Background(), domainauth.Session{
		SubjectID: "subject-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID:        "test-session-1",
		SubjectID: "subject-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}))

	require.NoError(t, store.Delete(ctx, "test-session-1"))

	_, err := store.Get(ctx, "test-session-1")
	assert.Equal(t, ErrNotFound, err)

	// Delete with empty ID should not error
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestMemorySessionStore_DeleteBySubject(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	expiry := time.Now().Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", SubjectID: "subject-1", ExpiresAt: expiry}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s2", SubjectID: "subject-1", ExpiresAt: expiry}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s3", SubjectID: "subject-2", ExpiresAt: expiry}))

	require.NoError(t, store.DeleteBySubject(ctx, "subject-1"))

	_, err := store.Get(ctx, "s1")
	assert.Equal(t, ErrNotFound, err)
	_, err = store.Get(ctx, "s2")
	assert.Equal(t, ErrNotFound, err)
	_, err = store.Get(ctx, "s3")
	assert.NoError(t, err)
}

func TestMemoryRoleLoader(t *testing.T) {
	loader := &MemoryRoleLoader{Roles: map[string]domainauth.Role{
		"subject-1": domainauth.RoleAdmin,
	}}

	role, err := loader.LoadRole(context.Background(), "subject-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, role)

	_, err = loader.LoadRole(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryRoleLoader_ErrorInjection(t *testing.T) {
	injected := errors.New("directory offline")
	loader := &MemoryRoleLoader{
		Roles: map[string]domainauth.Role{"subject-1": domainauth.RoleAdmin},
		Err:   injected,
	}

	_, err := loader.LoadRole(context.Background(), "subject-1")
	assert.Equal(t, injected, err)
}

func TestMockDirectory(t *testing.T) {
	dir := &MockDirectory{}

	require.NoError(t, dir.DeleteIdentity(context.Background(), "subject-1"))
	require.NoError(t, dir.DeleteIdentity(context.Background(), "subject-2"))
	assert.Equal(t, []string{"subject-1", "subject-2"}, dir.Deleted)
}

func TestMockDirectory_ErrorInjection(t *testing.T) {
	injected := errors.New("provider down")
	dir := &MockDirectory{Err: injected}

	err := dir.DeleteIdentity(context.Background(), "subject-1")
	assert.Equal(t, injected, err)
	assert.Empty(t, dir.Deleted)
}
