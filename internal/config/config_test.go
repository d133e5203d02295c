package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "party")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "partyloft")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg := Load()
	if cfg.HoldTTLMin != 10 {
		t.Fatalf("HoldTTLMin = %d, want 10", cfg.HoldTTLMin)
	}
	if cfg.HoldMaxExtendMin != 30 {
		t.Fatalf("HoldMaxExtendMin = %d, want 30", cfg.HoldMaxExtendMin)
	}
	if cfg.DefaultSlotDurMin != 120 {
		t.Fatalf("DefaultSlotDurMin = %d, want 120", cfg.DefaultSlotDurMin)
	}
	if cfg.SweepRetentionDays != 7 {
		t.Fatalf("SweepRetentionDays = %d, want 7", cfg.SweepRetentionDays)
	}
	if cfg.DBPass != "" {
		t.Fatalf("DBPass = %q, want empty", cfg.DBPass)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HOLD_TTL_MIN", "5")
	t.Setenv("DB_PASS", "hunter2")
	cfg := Load()
	if cfg.HoldTTLMin != 5 {
		t.Fatalf("HoldTTLMin = %d, want 5", cfg.HoldTTLMin)
	}
	if cfg.DBPass != "hunter2" {
		t.Fatalf("DBPass = %q", cfg.DBPass)
	}
}

func TestRateLimitFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 {
		t.Fatalf("Capacity = %d", cfg.Capacity)
	}
	if cfg.RefillInterval <= 0 {
		t.Fatalf("RefillInterval = %v", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("TTL = %v with interval %v", cfg.TTL, cfg.RefillInterval)
	}
}

func TestCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Fatalf("Methods = %v", cfg.Methods)
	}
	if cfg.TTL != 15*time.Second {
		t.Fatalf("TTL = %v, want 15s default", cfg.TTL)
	}
}
