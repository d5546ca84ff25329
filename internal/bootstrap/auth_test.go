package bootstrap

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamphlets/pamphlets/config"
)

func testRedisClient() redis.UniversalClient {
	// Construction only; nothing here dials the server.
	return redis.NewClient(&redis.Options{Addr: "localhost:6379"})
}

func TestBuildAuthService_RequiresRedis(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{Mode: config.AuthModeMock},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client")
}

func TestBuildAuthService_MockMode(t *testing.T) {
	svc, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				SubjectID: "dev-user",
				Email:     "dev@example.com",
				Groups:    []string{"admins"},
			},
		},
		RedisClient: testRedisClient(),
	})

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildAuthService_MockModeInvalidDevConfig(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{Email: "dev@example.com"},
		},
		RedisClient: testRedisClient(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create dev auth provider")
}

func TestBuildAuthService_OAuthModeMissingDiscoveryURL(t *testing.T) {
	// The env defaults fill client ID and secret but not the discovery URL;
	// that configuration must abort startup, not produce a nil service.
	_, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID:     "pamphlets",
				ClientSecret: "pamphlets",
				RedirectURL:  "http://localhost:8080/auth/callback",
			},
		},
		RedisClient: testRedisClient(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovery_url_empty=true")
}

func TestBuildAuthService_UnknownMode(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{
		Auth:        config.AuthConfig{Mode: config.AuthMode("saml")},
		RedisClient: testRedisClient(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported auth mode")
}

func TestBuildServices_PropagatesAuthError(t *testing.T) {
	cfg := config.AppConfig{}
	cfg.Auth.Mode = config.AuthModeOAuth // discovery URL missing

	_, err := BuildServices(ServiceDeps{
		Config:      &cfg,
		RedisClient: testRedisClient(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build auth service")
}

func TestBuildServices_MockMode(t *testing.T) {
	cfg := config.AppConfig{}
	cfg.Auth.Mode = config.AuthModeMock
	cfg.Auth.DevAuth = config.DevAuthConfig{
		SubjectID: "dev-user",
		Email:     "dev@example.com",
		Groups:    []string{"admins"},
	}

	services, err := BuildServices(ServiceDeps{
		Config:      &cfg,
		RedisClient: testRedisClient(),
	})

	require.NoError(t, err)
	require.NotNil(t, services)
	assert.NotNil(t, services.Auth)
	assert.NotNil(t, services.Users)
	assert.NotNil(t, services.Articles)
	assert.NotNil(t, services.Comments)
}
