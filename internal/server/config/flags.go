package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

var valueFlags = []string{"-a", "-m", "-k", "-d", "-s", "-t", "-l", "-b", "-e"}

// KnownFlags lists every flag Load consumes, config file flags included.
// Callers use it with flagx.Rest to find their positional arguments.
func KnownFlags() []string {
	return append([]string{"-c", "-config", "--config"}, valueFlags...)
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics/health HTTP bind address
//	-k string   database driver: sqlite or postgres
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log level
//	-b string   S3 bucket for archive exports
//	-e string   S3 base endpoint
//
// Unrelated arguments (subcommands, -c) are filtered out first.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, valueFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "address and port for metrics and health")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (sqlite|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
}
