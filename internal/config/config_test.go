package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	env := map[string]string{
		"USERAPI_PRIMARY.ENV":                 "production",
		"USERAPI_SERVER.PORT":                 "8080",
		"USERAPI_SERVER.READ_TIMEOUT":         "30",
		"USERAPI_SERVER.WRITE_TIMEOUT":        "30",
		"USERAPI_SERVER.IDLE_TIMEOUT":         "60",
		"USERAPI_SERVER.CORS_ALLOWED_ORIGINS": "http://localhost:3000",
		"USERAPI_DATABASE.HOST":               "localhost",
		"USERAPI_DATABASE.PORT":               "5432",
		"USERAPI_DATABASE.USER":               "postgres",
		"USERAPI_DATABASE.PASSWORD":           "postgres",
		"USERAPI_DATABASE.NAME":               "users",
		"USERAPI_DATABASE.SSL_MODE":           "disable",
		"USERAPI_DATABASE.MAX_OPEN_CONNS":     "25",
		"USERAPI_DATABASE.MAX_IDLE_CONNS":     "5",
		"USERAPI_DATABASE.CONN_MAX_LIFETIME":  "300",
		"USERAPI_DATABASE.CONN_MAX_IDLE_TIME": "60",
		"USERAPI_REDIS.ADDRESS":               "localhost:6379",
		"USERAPI_AUTH.SECRET_KEY":             "0123456789abcdef0123",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERAPI_AUTH.TOKEN_TTL", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.IsLocal())

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERAPI_PRIMARY.ENV", "local")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, "", cfg.Integration.ResendAPIKey)
	assert.True(t, cfg.Observability.ChecksEnabled("database"))
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERAPI_DATABASE.HOST", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERAPI_AUTH.SECRET_KEY", "short")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.HealthChecks.Checks = []string{"database"}
	assert.True(t, cfg.ChecksEnabled("database"))
	assert.False(t, cfg.ChecksEnabled("redis"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.ChecksEnabled("database"))

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Level = ""
	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())
}
