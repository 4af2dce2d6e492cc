package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "SOL_USDC_PERP" || cfg.Grid.StepBps != 10 || cfg.Timing.WindowMs != 1200 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Live {
		t.Fatal("default mode must be paper")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
symbol: ETH_USDC_PERP
grid:
  stepBps: 20
  bidLevels: 3
  askLevels: 3
  orderUSD: 25
  maxPositionUSD: 500
  maxDevBps: 50
  enableBids: true
  enableAsks: false
timing:
  windowMs: 2000
  orderTTLSec: 15
exit:
  takeProfitPct: 2.0
  tpOffsetBps: 5
  maxHoldSec: 600
feed:
  startMid: 3000
  spreadBps: 1.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "ETH_USDC_PERP" || cfg.Grid.StepBps != 20 || cfg.Grid.EnableAsks {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Timing.WindowMs != 2000 || cfg.Exit.MaxHoldSec != 600 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("GRID_API_KEY", "env-key")
	t.Setenv("GRID_API_SECRET", "env-secret")
	cfg, err := LoadWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "env-key" || cfg.APISecret != "env-secret" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestValidateLiveRequiresCredentials(t *testing.T) {
	cfg := Default()
	cfg.Live = true
	if err := Validate(cfg); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	cfg.APIKey = "k"
	cfg.APISecret = "s"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error with credentials: %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []func(*AppConfig){
		func(c *AppConfig) { c.Symbol = "" },
		func(c *AppConfig) { c.Grid.StepBps = 0 },
		func(c *AppConfig) { c.Grid.OrderUSD = -1 },
		func(c *AppConfig) { c.Grid.MaxDevBps = 0 },
		func(c *AppConfig) { c.Timing.WindowMs = 0 },
		func(c *AppConfig) { c.Timing.OrderTTLSec = 0 },
		func(c *AppConfig) { c.Exit.TakeProfitPct = 0 },
		func(c *AppConfig) { c.Feed.StartMid = 0 },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
