package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for godotenv.Load.
var loadDotEnv = godotenv.Load

// parseEnv overlays MICROBLOG_* environment variables. Variables from a
// .env file in the working directory are loaded first but never override
// the real environment. Malformed numbers and durations are ignored.
func parseEnv(c *Config) {
	_ = loadDotEnv()

	setString(&c.EndpointAddrGRPC, "MICROBLOG_GRPC_ADDR")
	setString(&c.EndpointAddrHTTP, "MICROBLOG_HTTP_ADDR")
	setString(&c.DatabaseDriver, "MICROBLOG_DATABASE_DRIVER")
	setString(&c.DatabaseDSN, "MICROBLOG_DATABASE_DSN")
	setString(&c.SecretKey, "MICROBLOG_SECRET_KEY")
	setString(&c.LogLevel, "MICROBLOG_LOG_LEVEL")
	setString(&c.S3AccessKey, "MICROBLOG_S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "MICROBLOG_S3_SECRET_KEY")
	setString(&c.S3Bucket, "MICROBLOG_S3_BUCKET")
	setString(&c.S3Region, "MICROBLOG_S3_REGION")
	setString(&c.S3BaseEndpoint, "MICROBLOG_S3_ENDPOINT")

	if v := os.Getenv("MICROBLOG_ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("MICROBLOG_BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BcryptCost = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
