package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ZAMFLOW_ENVIRONMENT", "")
	t.Setenv("ZAMFLOW_AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env())
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "local", cfg.Identity.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "development falls back to a dev secret")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ZAMFLOW_HTTP_ADDR", ":9000")
	t.Setenv("ZAMFLOW_STORAGE_DRIVER", "sqlite")
	t.Setenv("ZAMFLOW_STORAGE_DSN", "file:test.db")
	t.Setenv("ZAMFLOW_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("ZAMFLOW_AUTH_TOKEN_TTL", "1h")
	t.Setenv("ZAMFLOW_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "file:test.db", cfg.Storage.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ZAMFLOW_ENVIRONMENT", "production")
	t.Setenv("ZAMFLOW_AUTH_JWT_SECRET", "")
	t.Setenv("ZAMFLOW_ADMIN_PASSWORD", "Str0ng-admin")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRejectsDefaultAdminPassword(t *testing.T) {
	t.Setenv("ZAMFLOW_ENVIRONMENT", "production")
	t.Setenv("ZAMFLOW_AUTH_JWT_SECRET", "s3cret")

	for _, pw := range []string{"", DefaultAdminPassword} {
		t.Setenv("ZAMFLOW_ADMIN_PASSWORD", pw)
		_, err := Load()
		assert.ErrorContains(t, err, "ZAMFLOW_ADMIN_PASSWORD", "password %q", pw)
	}

	t.Setenv("ZAMFLOW_ADMIN_PASSWORD", "Str0ng-admin")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Str0ng-admin", cfg.Admin.Password)

	// No bootstrap admin, nothing to protect.
	t.Setenv("ZAMFLOW_ADMIN_EMAIL", "")
	t.Setenv("ZAMFLOW_ADMIN_PASSWORD", "")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoad_DevelopmentKeepsDefaultAdminPassword(t *testing.T) {
	t.Setenv("ZAMFLOW_ENVIRONMENT", "development")
	t.Setenv("ZAMFLOW_ADMIN_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Admin.Password)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{Storage: StorageConfig{Driver: "mongo"}, Identity: IdentityConfig{Provider: "local"}}},
		{"unknown provider", Config{Storage: StorageConfig{Driver: "memory"}, Identity: IdentityConfig{Provider: "ldap"}}},
		{"toolkit without key", Config{Storage: StorageConfig{Driver: "memory"}, Identity: IdentityConfig{Provider: "toolkit"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("PRODUCTION"))
	assert.Equal(t, Staging, ParseEnvironment("staging"))
	assert.Equal(t, Testing, ParseEnvironment(" testing "))
	assert.Equal(t, Development, ParseEnvironment("whatever"))
}

func TestString_MasksSecret(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{JWTSecret: "top-secret"}}
	assert.NotContains(t, cfg.String(), "top-secret")
}
