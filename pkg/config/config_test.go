package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Cache.TTL != 300*time.Second {
		t.Errorf("Expected cache TTL to be 300s, got %s", cfg.Cache.TTL)
	}

	if cfg.Cache.StaleTTL != 24*time.Hour {
		t.Errorf("Expected stale TTL to be 24h, got %s", cfg.Cache.StaleTTL)
	}

	if cfg.Providers.MinRequestInterval != 700*time.Millisecond {
		t.Errorf("Expected min request interval to be 700ms, got %s", cfg.Providers.MinRequestInterval)
	}

	if cfg.Providers.AlphaVantage.MinInterval != 12*time.Second {
		t.Errorf("Expected Alpha Vantage min interval to be 12s, got %s", cfg.Providers.AlphaVantage.MinInterval)
	}

	if cfg.DemoMode {
		t.Error("Expected DemoMode to default to false")
	}

	if cfg.EntryBeforeClose != 15*time.Minute || cfg.ExitAfterOpen != 15*time.Minute {
		t.Errorf("Expected 15m window paddings, got %s/%s", cfg.EntryBeforeClose, cfg.ExitAfterOpen)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PRICE_CACHE_TTL", "60s")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("USER_TIMEZONE", "Europe/Berlin")
	t.Setenv("FINNHUB_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Expected cache TTL to be 60s, got %s", cfg.Cache.TTL)
	}

	if !cfg.DemoMode {
		t.Error("Expected DemoMode to be true")
	}

	if cfg.UserTimezone != "Europe/Berlin" {
		t.Errorf("Expected user timezone Europe/Berlin, got %s", cfg.UserTimezone)
	}

	if cfg.Providers.Finnhub.APIKey != "test-key" {
		t.Errorf("Expected Finnhub key to be set, got %q", cfg.Providers.Finnhub.APIKey)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject unknown ENV")
	}
}

func TestLoadRejectsShortStaleTTL(t *testing.T) {
	t.Setenv("PRICE_CACHE_TTL", "1h")
	t.Setenv("PRICE_CACHE_STALE_TTL", "5m")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject stale TTL shorter than fresh TTL")
	}
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	t.Setenv("BAD_DURATION", "not-a-duration")

	if got := getEnvAsDuration("BAD_DURATION", "3s"); got != 3*time.Second {
		t.Errorf("Expected fallback 3s, got %s", got)
	}
}
