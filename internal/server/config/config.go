// Package config handles configuration for the microblog server and admin
// CLI: defaults, .env and MICROBLOG_* environment variables, a JSON overlay,
// and command-line flags, applied in that order.
package config

import (
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the microblog server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - EndpointAddrHTTP: bind address for /metrics and /healthz.
//   - DatabaseDriver: "sqlite" (embedded) or "postgres" (pgx).
//   - DatabaseDSN: file path / DSN for the chosen driver.
//   - SecretKey: HMAC secret for signing access tokens (HS256).
//   - AccessTokenValidityDuration: lifetime of an access token.
//   - BcryptCost: work factor for password hashes.
//   - LogLevel: debug, info, warn or error.
//   - S3*: object storage used by post archive exports.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	LogLevel                    string
	S3AccessKey                 string
	S3SecretKey                 string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":9090"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "data/microblog.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "microblog-archive"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and finally the process command-line flags.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
