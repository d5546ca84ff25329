package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	"github.com/pamphlets/pamphlets/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthService implements AuthServiceInterface for handler tests.
type fakeAuthService struct {
	beginResult    *service.BeginLoginResult
	beginErr       error
	completeResult *service.CompleteLoginResult
	completeErr    error
	sessions       map[string]*domainauth.Session
	loggedOut      []string
	logoutErr      error
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{sessions: make(map[string]*domainauth.Session)}
}

func (f *fakeAuthService) BeginLogin(_ context.Context, _ string) (*service.BeginLoginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	if f.beginResult != nil {
		return f.beginResult, nil
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth",
		State:   "state-1",
		Nonce:   "nonce-1",
	}, nil
}

func (f *fakeAuthService) CompleteLogin(_ context.Context, _ service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	if f.completeResult != nil {
		return f.completeResult, nil
	}
	return &service.CompleteLoginResult{Session: domainauth.Session{
		ID:        "session-1",
		SubjectID: "u1",
		Email:     "u1@example.com",
		Role:      domainauth.RoleVisitor,
		ExpiresAt: time.Now().Add(time.Hour),
	}}, nil
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("get session: not found")
	}
	return sess, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.loggedOut = append(f.loggedOut, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeAuthService) addSession(id string, role domainauth.Role) *domainauth.Session {
	sess := &domainauth.Session{
		ID:        id,
		SubjectID: "subject-" + id,
		Email:     "subject@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[id] = sess
	return sess
}

func withSessionCookie(r *http.Request, sessionID string) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	return r
}

func okHandler(t *testing.T, sawSession *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); ok && sawSession != nil {
			*sawSession = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_NoCookie(t *testing.T) {
	svc := newFakeAuthService()
	handler := RequireAuth(svc)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestRequireAuth_InvalidSession(t *testing.T) {
	svc := newFakeAuthService()
	handler := RequireAuth(svc)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "stale")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidSessionReachesHandler(t *testing.T) {
	svc := newFakeAuthService()
	svc.addSession("s1", domainauth.RoleVisitor)

	var sawSession bool
	handler := RequireAuth(svc)(okHandler(t, &sawSession))

	rec := httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "s1")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawSession, "session should be propagated in context")
}

func TestRequireRole_NoSession(t *testing.T) {
	svc := newFakeAuthService()
	handler := RequireRole(svc, domainauth.RoleAdmin)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_InsufficientRole(t *testing.T) {
	svc := newFakeAuthService()
	svc.addSession("s1", domainauth.RoleVisitor)

	handler := RequireRole(svc, domainauth.RoleAuthor)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/articles", nil), "s1")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "forbidden")
}

func TestRequireRole_AdminSatisfiesAuthorRequirement(t *testing.T) {
	svc := newFakeAuthService()
	svc.addSession("s1", domainauth.RoleAdmin)

	handler := RequireRole(svc, domainauth.RoleAuthor)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/articles", nil), "s1")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_ExactRole(t *testing.T) {
	svc := newFakeAuthService()
	svc.addSession("s1", domainauth.RoleAuthor)

	handler := RequireRole(svc, domainauth.RoleAuthor)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/articles", nil), "s1")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_WithAndWithoutSession(t *testing.T) {
	svc := newFakeAuthService()
	svc.addSession("s1", domainauth.RoleVisitor)

	var sawSession bool
	handler := OptionalAuth(svc)(okHandler(t, &sawSession))

	// Without a cookie the request still goes through.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawSession)

	// With a valid cookie the session lands in context.
	rec = httptest.NewRecorder()
	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/articles", nil), "s1")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawSession)
}

func TestCredentialFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, credentialFromRequest(req))

	req = withSessionCookie(httptest.NewRequest(http.MethodGet, "/", nil), "cred-1")
	assert.Equal(t, "cred-1", credentialFromRequest(req))
}

func TestRecover_PanicReturns500(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_PreservesStatus(t *testing.T) {
	handler := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSessionContextRoundTrip(t *testing.T) {
	sess := &domainauth.Session{ID: "s1", SubjectID: "u1"}

	ctx := SetSessionInContext(context.Background(), sess)
	got, ok := GetSessionFromContext(ctx)

	require.True(t, ok)
	assert.Equal(t, sess, got)
}

func TestSessionContext_NilSession(t *testing.T) {
	ctx := SetSessionInContext(context.Background(), nil)

	_, ok := GetSessionFromContext(ctx)
	assert.False(t, ok)
}
