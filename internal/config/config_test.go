package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/badges")
	t.Setenv("JWT_SECRET", "secret")
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AppPort != "8080" || cfg.CacheTTL != 5*time.Minute || cfg.CacheMaxEntries != 200 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.SweepEnabled || cfg.SweepHour != 3 || cfg.SweepMinute != 0 || cfg.SweepBatchSize != 500 {
		t.Fatalf("unexpected sweep defaults %+v", cfg)
	}
	if cfg.APIRateLimit != 120 || cfg.CheckRateLimit != 30 || cfg.DBMaxConns != 10 {
		t.Fatalf("unexpected limits %+v", cfg)
	}
}

func TestParse_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LEADERBOARD_CACHE_TTL_SECONDS", "30")
	t.Setenv("SWEEP_AT", "22:45")
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("REDIS_DB", "0")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CacheTTL != 30*time.Second || cfg.SweepHour != 22 || cfg.SweepMinute != 45 || cfg.SweepEnabled || !cfg.LogJSON {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SWEEP_AT", "25:00")
	t.Setenv("API_RATE_LIMIT", "lots")

	_, err := Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "SWEEP_AT", "API_RATE_LIMIT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
