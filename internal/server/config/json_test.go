package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()

	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc":             "www.example:9000",
		"endpoint_addr_http":             "www.example:9001",
		"database_driver":                "postgres",
		"database_dsn":                   "postgres://db",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "30m",
		"bcrypt_cost":                    11,
		"log_level":                      "warn",
		"s3_access_key":                  "user",
		"s3_secret_key":                  "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "www.example:9001", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"database_dsn": "other.db"})
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "other.db", cfg.DatabaseDSN)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{DatabaseDSN: "keep.db", BcryptCost: 4}
		parseJson(cfg, []string{"-d", "x"})

		assert.Equal(t, "keep.db", cfg.DatabaseDSN)
		assert.Equal(t, 4, cfg.BcryptCost)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
