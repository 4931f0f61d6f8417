// Package utils holds environment-driven configuration shared by the
// server and command-line binaries.
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverLocal  = "local"
	DriverRemote = "remote"
)

// Config is everything the binaries read from the environment.
type Config struct {
	HTTPAddr string
	SyncAddr string

	// Driver selects the base post backend: "local" serves the bundled
	// seed file, "remote" proxies a posts API.
	Driver         string
	SeedCandidates []string
	RemoteBaseURL  string
	RemoteTimeout  time.Duration

	SchemaPath string

	Auth AuthConfig
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func Load() Config {
	cfg := Config{
		HTTPAddr:      envOr("CAMPUSMARKET_HTTP_ADDR", ":8080"),
		SyncAddr:      envOr("CAMPUSMARKET_SYNC_ADDR", ":9090"),
		Driver:        strings.ToLower(envOr("CAMPUSMARKET_DRIVER", DriverLocal)),
		RemoteBaseURL: strings.TrimSpace(os.Getenv("CAMPUSMARKET_REMOTE_URL")),
		RemoteTimeout: durationOr("CAMPUSMARKET_REMOTE_TIMEOUT_SECONDS", 10*time.Second),
		SchemaPath:    envOr("CAMPUSMARKET_SCHEMA_PATH", "docs/schema.sql"),
		Auth:          LoadAuthConfig(),
	}

	if v := strings.TrimSpace(os.Getenv("CAMPUSMARKET_SEED_PATHS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.SeedCandidates = append(cfg.SeedCandidates, p)
			}
		}
	} else {
		cfg.SeedCandidates = []string{"data/seed.json"}
	}

	return cfg
}

// Validate fails fast on configurations that would only surface as
// confusing runtime errors later.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverLocal:
		if len(c.SeedCandidates) == 0 {
			return fmt.Errorf("driver %q needs at least one seed path", c.Driver)
		}
	case DriverRemote:
		if c.RemoteBaseURL == "" {
			return fmt.Errorf("driver %q needs CAMPUSMARKET_REMOTE_URL", c.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q (want %q or %q)", c.Driver, DriverLocal, DriverRemote)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	return nil
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("CAMPUSMARKET_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CAMPUSMARKET_JWT_ISSUER")
	if issuer == "" {
		issuer = "campusmarket"
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("CAMPUSMARKET_JWT_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			ttl = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: ttl,
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
