package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DEFAULT_TOTAL_SLOTS", "ACCESS_TOKEN_MINUTES", "METRICS_ENABLED", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8780" {
		t.Errorf("port = %s, want 8780", cfg.Port)
	}
	if cfg.DefaultTotalSlots != 40 {
		t.Errorf("default total slots = %d, want 40", cfg.DefaultTotalSlots)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access ttl = %s, want 15m", cfg.AccessTokenTTL)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should default to enabled")
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_TOTAL_SLOTS", "24")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("ACCESS_TOKEN_MINUTES", "5")

	cfg := Load()

	if cfg.DefaultTotalSlots != 24 {
		t.Errorf("default total slots = %d, want 24", cfg.DefaultTotalSlots)
	}
	if cfg.MetricsEnabled {
		t.Error("metrics should be disabled")
	}
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Errorf("access ttl = %s, want 5m", cfg.AccessTokenTTL)
	}
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("SOME_INT", "-3")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("got %d, want fallback 7", got)
	}
	t.Setenv("SOME_INT", "abc")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("got %d, want fallback 7", got)
	}
}
