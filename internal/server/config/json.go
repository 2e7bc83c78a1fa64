package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both "24h" strings and integer nanoseconds. Empty fields leave the
// current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	LogLevel                    string         `json:"log_level"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// It panics if the file cannot be read or is not valid JSON.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDriver, c.DatabaseDriver)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.S3AccessKey, c.S3AccessKey)
	overlay(&config.S3SecretKey, c.S3SecretKey)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
