package config

import (
	"testing"
	"time"
)

type envTestConfig struct {
	DBPath   string        `env:"CONFIG_TEST_DB_PATH" envDefault:"data/test.db"`
	Days     int           `env:"CONFIG_TEST_DAYS" envDefault:"5"`
	TickStep time.Duration `env:"CONFIG_TEST_TICK_STEP" envDefault:"250ms"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "data/test.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "data/test.db")
	}
	if cfg.Days != 5 {
		t.Fatalf("days = %d, want 5", cfg.Days)
	}
	if cfg.TickStep != 250*time.Millisecond {
		t.Fatalf("tick step = %v, want 250ms", cfg.TickStep)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_TEST_DB_PATH", "/tmp/other.db")
	t.Setenv("CONFIG_TEST_DAYS", "31")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "/tmp/other.db")
	}
	if cfg.Days != 31 {
		t.Fatalf("days = %d, want 31", cfg.Days)
	}
}

func TestParseEnvRejectsBadValue(t *testing.T) {
	t.Setenv("CONFIG_TEST_DAYS", "not-a-number")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected error for malformed int, got nil")
	}
}

func TestParseEnvRejectsNilTarget(t *testing.T) {
	if err := ParseEnv(nil); err == nil {
		t.Fatal("expected error for nil target, got nil")
	}
}
