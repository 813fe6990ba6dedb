package config

import (
	"os"
	"testing"
	"time"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = append([]string{"server"}, args...)
	fn()
}

func TestParseFlags_Overrides(t *testing.T) {
	withArgs(t, []string{"-a", ":9090", "-s", "flag-secret", "-t", "30", "-cache", "redis"}, func() {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		if cfg.EndpointAddr != ":9090" {
			t.Fatalf("expected addr override, got %q", cfg.EndpointAddr)
		}
		if cfg.SecretKey != "flag-secret" {
			t.Fatalf("expected secret override, got %q", cfg.SecretKey)
		}
		if cfg.TokenValidityDuration != 30*time.Minute {
			t.Fatalf("expected 30m token validity, got %v", cfg.TokenValidityDuration)
		}
		if cfg.CacheBackend != CacheBackendRedis {
			t.Fatalf("expected redis cache backend, got %q", cfg.CacheBackend)
		}
	})
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	withArgs(t, []string{"-unknown", "x", "-d", "postgres://h/db"}, func() {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		if cfg.DatabaseDSN != "postgres://h/db" {
			t.Fatalf("expected DSN override, got %q", cfg.DatabaseDSN)
		}
	})
}
