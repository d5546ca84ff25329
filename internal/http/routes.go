package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/pamphlets/pamphlets/internal/domain/auth"
	apperrors "github.com/pamphlets/pamphlets/internal/errors"
	"github.com/pamphlets/pamphlets/internal/guard"
	"github.com/pamphlets/pamphlets/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Articles     *service.ArticleService
	Comments     *service.CommentService
	CookieDomain string
	// Optional per-client limiter applied to the login endpoints. If nil,
	// a default limiter is created.
	LoginLimiter *RateLimiter
	// Pages serves page (non-API) requests after the route guard has
	// mediated navigation. Defaults to a 404 handler when the embedding
	// application provides no page renderer.
	Pages  http.Handler
	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authSvc := authServiceOrFailClosed(services.Auth, services.Logger)

	authHandlers := &AuthHandlers{
		Svc:          authSvc,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	userHandlers := &UserHandlers{Svc: services.Users}
	articleHandlers := &ArticleHandlers{Svc: services.Articles}
	commentHandlers := &CommentHandlers{Svc: services.Comments}

	limiter := services.LoginLimiter
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimitConfig())
	}

	registerAuthRoutes(mux, authHandlers, limiter)
	registerArticleRoutes(mux, articleHandlers, authSvc)
	registerCommentRoutes(mux, commentHandlers, authSvc)
	registerUserRoutes(mux, userHandlers, authSvc)
	registerPageRoutes(mux, authSvc, services.Pages)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

// authServiceOrFailClosed substitutes a fail-closed stub when no auth service
// is wired, so guarded routes reject requests instead of dereferencing a nil
// service. Bootstrap treats missing auth as a startup error; this is the
// request-time backstop for routers assembled directly.
func authServiceOrFailClosed(svc *service.AuthService, logger *slog.Logger) AuthServiceInterface {
	if svc != nil {
		return svc
	}
	if logger != nil {
		logger.Warn("no auth service wired; auth and guarded routes fail closed")
	}
	return unavailableAuthService{}
}

// unavailableAuthService rejects every operation. Sessions never resolve, so
// guarded routes return 401 and login attempts surface an error.
type unavailableAuthService struct{}

func (unavailableAuthService) BeginLogin(context.Context, string) (*service.BeginLoginResult, error) {
	return nil, apperrors.ExternalDependency("auth service is not configured", nil)
}

func (unavailableAuthService) CompleteLogin(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	return nil, apperrors.ExternalDependency("auth service is not configured", nil)
}

func (unavailableAuthService) GetSession(context.Context, string) (*domainauth.Session, error) {
	return nil, apperrors.ExternalDependency("auth service is not configured", nil)
}

func (unavailableAuthService) Logout(context.Context, string) error {
	return apperrors.ExternalDependency("auth service is not configured", nil)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, limiter *RateLimiter) {
	mux.Handle("GET /auth/login", limiter.Middleware(http.HandlerFunc(h.Login)))
	mux.Handle("GET /auth/callback", limiter.Middleware(http.HandlerFunc(h.Callback)))
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerArticleRoutes(mux *http.ServeMux, h *ArticleHandlers, authSvc AuthServiceInterface) {
	authorOnly := RequireRole(authSvc, domainauth.RoleAuthor)

	mux.HandleFunc("GET /api/articles", h.List)
	mux.HandleFunc("GET /api/articles/{slug}", h.Get)
	mux.Handle("POST /api/articles", authorOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /api/articles/{slug}", authorOnly(http.HandlerFunc(h.Update)))
}

func registerCommentRoutes(mux *http.ServeMux, h *CommentHandlers, authSvc AuthServiceInterface) {
	authed := RequireAuth(authSvc)
	adminOnly := RequireRole(authSvc, domainauth.RoleAdmin)

	mux.HandleFunc("GET /api/articles/{id}/comments", h.ListByArticle)
	mux.Handle("POST /api/articles/{id}/comments", authed(http.HandlerFunc(h.Create)))
	mux.Handle("DELETE /api/comments/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

// registerPageRoutes mounts the page namespace behind the route guard:
// every request not claimed by the API, auth, or health routes passes
// through the navigation rules before the page handler sees it.
func registerPageRoutes(mux *http.ServeMux, authSvc AuthServiceInterface, pages http.Handler) {
	if pages == nil {
		pages = http.NotFoundHandler()
	}
	table := guard.DefaultRouteTable()
	mux.Handle("/", PageGuard(table, authSvc)(pages))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, authSvc AuthServiceInterface) {
	authed := RequireAuth(authSvc)
	adminOnly := RequireRole(authSvc, domainauth.RoleAdmin)

	mux.Handle("GET /api/users/me", authed(http.HandlerFunc(h.Me)))
	mux.Handle("GET /api/users", adminOnly(http.HandlerFunc(h.List)))
	mux.Handle("DELETE /api/users/{id}", authed(http.HandlerFunc(h.Delete)))
}
