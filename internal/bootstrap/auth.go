package bootstrap

import (
	"errors"
	"fmt"

	"github.com/pamphlets/pamphlets/config"
	"github.com/pamphlets/pamphlets/internal/adapters/authroles"
	"github.com/pamphlets/pamphlets/internal/adapters/devauth"
	"github.com/pamphlets/pamphlets/internal/adapters/oidc"
	redisadapter "github.com/pamphlets/pamphlets/internal/adapters/redis"
	"github.com/pamphlets/pamphlets/internal/service"
	"github.com/redis/go-redis/v9"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       service.UserProvisioner
	// Sessions overrides the default Redis session store when set, letting
	// the caller share one store across services.
	Sessions *redisadapter.SessionStore
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Auth is mandatory: every guarded route depends on it, so an unusable
// configuration is a startup error rather than a degraded mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client for session storage")
	}

	// Create Redis session store shared by both modes
	sessionStore := cfg.Sessions
	if sessionStore == nil {
		sessionStore = redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	}

	// Role mapper is shared
	roleMapper := authroles.StaticRoleMapper{
		AdminGroup:  cfg.Auth.AdminGroup,
		AuthorGroup: cfg.Auth.AuthorGroup,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore, roleMapper)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore, roleMapper)

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.StaticRoleMapper,
) (*service.AuthService, error) {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		SubjectID: cfg.Auth.DevAuth.SubjectID,
		Email:     cfg.Auth.DevAuth.Email,
		Groups:    cfg.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
		Users:    cfg.Users,
	}), nil
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.StaticRoleMapper,
) (*service.AuthService, error) {
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		return nil, fmt.Errorf(
			"oauth auth mode selected but required config missing"+
				" (discovery_url_empty=%t client_id_empty=%t client_secret_empty=%t)",
			oauth.DiscoveryURL == "", oauth.ClientID == "", oauth.ClientSecret == "",
		)
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
		Users:    cfg.Users,
	}), nil
}
