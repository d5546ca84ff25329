package config

import (
	"reflect"
	"testing"

	env "github.com/caarlos0/env/v11"
)

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    AuthMode
		expectError bool
	}{
		{name: "oauth", input: "oauth", expected: AuthModeOAuth},
		{name: "mock", input: "mock", expected: AuthModeMock},
		{name: "uppercase is normalized", input: "OAuth", expected: AuthModeOAuth},
		{name: "unknown mode", input: "saml", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("ADMIN_GROUP", "cn=admins,ou=groups,dc=example,dc=org")
	t.Setenv("AUTHOR_GROUP", "cn=authors,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_SUBJECT_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_GROUPS", "admins;devs")
	t.Setenv("IDP_DIRECTORY_BASE_URL", "https://login.example.com/admin/v1")
	t.Setenv("IDP_DIRECTORY_API_TOKEN", "directory-token")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://app.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			SubjectID: "dev-user",
			Email:     "dev@example.com",
			Groups:    []string{"admins", "devs"},
		},
		Directory: DirectoryConfig{
			BaseURL:  "https://login.example.com/admin/v1",
			APIToken: "directory-token",
		},
		AdminGroup:  "cn=admins,ou=groups,dc=example,dc=org",
		AuthorGroup: "cn=authors,ou=groups,dc=example,dc=org",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseAuthEnv_InvalidMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "ldap")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected parse error for invalid AUTH_MODE")
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{LoginRateBurst: 0}
	cfg.Sanitize()
	if cfg.LoginRateBurst != 1 {
		t.Fatalf("expected burst to be clamped to 1, got %d", cfg.LoginRateBurst)
	}

	cfg = HTTPConfig{LoginRateBurst: -5}
	cfg.Sanitize()
	if cfg.LoginRateBurst != 1 {
		t.Fatalf("expected negative burst to be clamped to 1, got %d", cfg.LoginRateBurst)
	}

	cfg = HTTPConfig{LoginRateBurst: 20}
	cfg.Sanitize()
	if cfg.LoginRateBurst != 20 {
		t.Fatalf("expected configured burst to be kept, got %d", cfg.LoginRateBurst)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		nodeEnv  string
		expected bool
	}{
		{name: "explicit dev flag", isDev: true, nodeEnv: "", expected: true},
		{name: "node env development", isDev: false, nodeEnv: "development", expected: true},
		{name: "node env dev", isDev: false, nodeEnv: "dev", expected: true},
		{name: "node env uppercase", isDev: false, nodeEnv: "Development", expected: true},
		{name: "node env production", isDev: false, nodeEnv: "production", expected: false},
		{name: "no signals", isDev: false, nodeEnv: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.nodeEnv)

			cfg := AppConfig{IsDev: tt.isDev}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}
