package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "inline", cfg.Storage.Mode)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxUploadSizeBytes)
	assert.Equal(t, "US", cfg.Intake.DefaultPhoneRegion)
	assert.Equal(t, time.Hour, cfg.Intake.ConversationTTLDuration())
	assert.Equal(t, 72*time.Hour, cfg.Jobs.ChatSessionMaxIdleDuration())
	assert.False(t, cfg.Leads.CascadeDelete)
	assert.False(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LEADS_CASCADEDELETE", "true")
	t.Setenv("JWT_SECRET", "topsecret")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.Leads.CascadeDelete)
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "leads", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leads sslmode=require", d.ConnectionString())
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := f[secretName]; ok {
		return v, nil
	}
	return "", errors.New("missing")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "env-password"
	cfg.Auth.AdminAPIKey = "env-key"

	ApplySecrets(context.Background(), cfg, fakeSecrets{
		"POSTGRES-MAIN-PASSWORD": "vault-password",
		"jwt-secret":             "vault-jwt",
	})

	assert.Equal(t, "vault-password", cfg.Database.Password)
	assert.Equal(t, "vault-jwt", cfg.Auth.JWTSecret)
	assert.Equal(t, "env-key", cfg.Auth.AdminAPIKey)
}
