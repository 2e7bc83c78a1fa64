package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func noDotEnv(t *testing.T) {
	t.Helper()
	orig := loadDotEnv
	loadDotEnv = func(...string) error { return nil }
	t.Cleanup(func() { loadDotEnv = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":9090", c.EndpointAddrHTTP)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "data/microblog.db", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, bcrypt.DefaultCost, c.BcryptCost)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "microblog-archive", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoad_NoOverridesKeepsDefaults(t *testing.T) {
	noDotEnv(t)

	c := Load(nil)
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoad_Precedence_EnvThenJSONThenFlags(t *testing.T) {
	noDotEnv(t)

	t.Setenv("MICROBLOG_DATABASE_DRIVER", "postgres")
	t.Setenv("MICROBLOG_DATABASE_DSN", "postgres://env")
	t.Setenv("MICROBLOG_SECRET_KEY", "env-secret")
	t.Setenv("MICROBLOG_LOG_LEVEL", "debug")

	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"database_dsn": "postgres://json",
		"secret_key":   "json-secret",
	})

	c := Load([]string{"-c", path, "-s", "flag-secret"})

	assert.Equal(t, "postgres", c.DatabaseDriver, "env only")
	assert.Equal(t, "debug", c.LogLevel, "env only")
	assert.Equal(t, "postgres://json", c.DatabaseDSN, "json beats env")
	assert.Equal(t, "flag-secret", c.SecretKey, "flags beat json")
}

func TestParseEnv_ParsesNumbersAndDurations(t *testing.T) {
	noDotEnv(t)
	t.Setenv("MICROBLOG_ACCESS_TOKEN_TTL", "90m")
	t.Setenv("MICROBLOG_BCRYPT_COST", "12")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 90*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
}

func TestParseEnv_IgnoresMalformedValues(t *testing.T) {
	noDotEnv(t)
	t.Setenv("MICROBLOG_ACCESS_TOKEN_TTL", "forever")
	t.Setenv("MICROBLOG_BCRYPT_COST", "high")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, bcrypt.DefaultCost, c.BcryptCost)
}

func TestParseEnv_ReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MICROBLOG_GRPC_ADDR=127.0.0.1:6000\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("MICROBLOG_GRPC_ADDR", "")
	os.Unsetenv("MICROBLOG_GRPC_ADDR")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "127.0.0.1:6000", c.EndpointAddrGRPC)
}
