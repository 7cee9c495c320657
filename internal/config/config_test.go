package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.RateLimit.ReadBudget != 120 {
		t.Errorf("read budget = %d, want 120", cfg.RateLimit.ReadBudget)
	}
	if cfg.Cache.ProductTTL() != 15*time.Minute {
		t.Errorf("product ttl = %s, want 15m", cfg.Cache.ProductTTL())
	}
}

func TestLoadConfigOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9090"
rate_limit:
  enabled: true
  window_seconds: 30
  read_budget: 10
  write_budget: 5
  admin_budget: 2
auth:
  csrf_ttl_minutes: 5
cleanup:
  retention_days: 90
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.RateLimit.Window() != 30*time.Second {
		t.Errorf("window = %s, want 30s", cfg.RateLimit.Window())
	}
	if cfg.Auth.CSRFTTL() != 5*time.Minute {
		t.Errorf("csrf ttl = %s, want 5m", cfg.Auth.CSRFTTL())
	}
	if cfg.Cleanup.RetentionDays != 90 {
		t.Errorf("retention = %d, want 90", cfg.Cleanup.RetentionDays)
	}
	// File omissions keep their defaults.
	if cfg.Cache.CollectionTTL() != 30*time.Minute {
		t.Errorf("collection ttl = %s, want 30m", cfg.Cache.CollectionTTL())
	}
}

func TestLoadConfigEnvOverridesSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-jwt")
	t.Setenv("CSRF_SECRET", "env-csrf")
	t.Setenv("DB_HOST", "env-db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-jwt" {
		t.Errorf("jwt secret = %q, want env-jwt", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.CSRFSecret != "env-csrf" {
		t.Errorf("csrf secret = %q, want env-csrf", cfg.Auth.CSRFSecret)
	}
	if cfg.Database.Host != "env-db" {
		t.Errorf("db host = %q, want env-db", cfg.Database.Host)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml, got nil")
	}
}
