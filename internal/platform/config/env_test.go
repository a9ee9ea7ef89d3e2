package config

import (
	"testing"
	"time"
)

type testConfig struct {
	Addr     string        `env:"CARDROOM_TEST_ADDR" envDefault:"localhost:9000"`
	Interval time.Duration `env:"CARDROOM_TEST_INTERVAL" envDefault:"2s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:9000" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "localhost:9000")
	}
	if cfg.Interval != 2*time.Second {
		t.Fatalf("interval = %v, want 2s", cfg.Interval)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CARDROOM_TEST_ADDR", "table:1234")
	t.Setenv("CARDROOM_TEST_INTERVAL", "250ms")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "table:1234" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "table:1234")
	}
	if cfg.Interval != 250*time.Millisecond {
		t.Fatalf("interval = %v, want 250ms", cfg.Interval)
	}
}
