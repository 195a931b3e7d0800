package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "true")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "platewise")
	t.Setenv("DB_PASSWORD", "platewise")
	t.Setenv("DB_NAME", "platewise_test")
	t.Setenv("DB_SSL_MODE", "disable")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")
	// CI detection wins over ENV.
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}

func TestLoadConfigFromEnv(t *testing.T) {
	setCIEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "platewise_test", cfg.DBName)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	setCIEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigMissingValues(t *testing.T) {
	setCIEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadConfigFromSecrets(t *testing.T) {
	dir := t.TempDir()
	secrets := map[string]string{
		"server_port":    "8080",
		"server_host":    "0.0.0.0",
		"db_host":        "db",
		"db_port":        "5432",
		"db_user":        "platewise",
		"db_password":    "hunter2",
		"db_name":        "platewise",
		"db_ssl_mode":    "disable",
		"redis_host":     "redis",
		"redis_port":     "6379",
		"redis_password": "",
		"redis_url":      "",
		"jwt_secret":     "secret-from-file\n",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
	}

	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	t.Setenv("SECRETS_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.DBPassword)
	// Secret files are trimmed.
	assert.Equal(t, "secret-from-file", cfg.JWTSecret)
}

func TestValidateConfigMessageIsStable(t *testing.T) {
	want := "missing required configuration: server port, db host, db port, " +
		"db user, db password, db name, jwt secret, redis url or host/port"
	for i := 0; i < 5; i++ {
		err := ValidateConfig(&Config{})
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}

func TestValidateConfigRedisRule(t *testing.T) {
	cfg := &Config{
		ServerPort: "8080",
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "n",
		JWTSecret:  "s",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")

	cfg.RedisURL = "redis://localhost:6379"
	assert.NoError(t, ValidateConfig(cfg))
}
