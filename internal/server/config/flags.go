package config

import (
	"flag"
	"os"
	"time"

	"github.com/ndenisov/imgvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":8080")
//	-d string          PostgreSQL DSN
//	-s string          JWT HMAC secret key
//	-t int             token validity, minutes
//	-log string        log format: "json" or "pretty"
//	-cache string      cache backend: "memory" or "redis"
//	-redis string      Redis address
//	-storage string    image host backend: "imgur" or "s3"
//	-imgur-client string   Imgur client id
//	-gw-timeout int    image host call timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-log", "-cache", "-redis", "-storage",
		"-imgur-client", "-gw-timeout",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	gatewayTimeout := fs.Int("gw-timeout", int(config.GatewayTimeout.Seconds()), "image host call timeout (in seconds)")

	fs.StringVar(&config.LogFormat, "log", config.LogFormat, "log format (json or pretty)")
	fs.StringVar(&config.CacheBackend, "cache", config.CacheBackend, "cache backend (memory or redis)")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "image host backend (imgur or s3)")
	fs.StringVar(&config.ImgurClientID, "imgur-client", config.ImgurClientID, "imgur client id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.GatewayTimeout = time.Duration(*gatewayTimeout) * time.Second
}
