package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("TOKEN_BLACKLIST_LIMIT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.TokenBlacklistLimit != 10000 {
		t.Errorf("TokenBlacklistLimit = %d, want 10000", cfg.TokenBlacklistLimit)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("TOKEN_BLACKLIST_LIMIT", "5")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()
	if cfg.JWTAccessExpiry != 30*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 30m", cfg.JWTAccessExpiry)
	}
	if cfg.TokenBlacklistLimit != 5 {
		t.Errorf("TokenBlacklistLimit = %d, want 5", cfg.TokenBlacklistLimit)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want fallback 120", cfg.RateLimitPerMinute)
	}
}

func TestParseDurationFallback(t *testing.T) {
	if got := parseDuration("garbage"); got != 15*time.Minute {
		t.Errorf("parseDuration(garbage) = %v, want 15m", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prod := &Config{AppEnv: "production", DBDriver: "postgres", JWTSecret: "secret"}
	if err := prod.Validate(); err == nil {
		t.Fatal("expected error for missing DB password in production")
	}
}
