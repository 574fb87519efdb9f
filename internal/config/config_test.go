package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/clinic_test")
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DefaultCasesPerWeek != 5 {
		t.Errorf("expected default cases per week 5, got %d", cfg.DefaultCasesPerWeek)
	}
	if cfg.OutbreakWindowDays != 7 {
		t.Errorf("expected default window of 7 days, got %d", cfg.OutbreakWindowDays)
	}
	if cfg.TrendMinCases != 3 {
		t.Errorf("expected default trend floor 3, got %d", cfg.TrendMinCases)
	}
	if cfg.TrendMinIncreasePct != 100 {
		t.Errorf("expected default trend increase 100%%, got %v", cfg.TrendMinIncreasePct)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("SURV_DEFAULT_CASES_PER_WEEK", "10")
	os.Setenv("SURV_WINDOW_DAYS", "14")
	t.Cleanup(func() {
		os.Unsetenv("SURV_DEFAULT_CASES_PER_WEEK")
		os.Unsetenv("SURV_WINDOW_DAYS")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultCasesPerWeek != 10 {
		t.Errorf("expected 10, got %d", cfg.DefaultCasesPerWeek)
	}
	if cfg.OutbreakWindowDays != 14 {
		t.Errorf("expected 14, got %d", cfg.OutbreakWindowDays)
	}
}

func TestValidate_RequiresJWTSecretOutsideDev(t *testing.T) {
	cfg := &Config{
		Env:                 "production",
		DefaultCasesPerWeek: 5,
		OutbreakWindowDays:  7,
		TrendMinCases:       3,
		TrendMinIncreasePct: 100,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadPolicy(t *testing.T) {
	base := Config{
		Env:                 "development",
		DefaultCasesPerWeek: 5,
		OutbreakWindowDays:  7,
		TrendMinCases:       3,
		TrendMinIncreasePct: 100,
	}

	cfg := base
	cfg.DefaultCasesPerWeek = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero default cases per week")
	}

	cfg = base
	cfg.OutbreakWindowDays = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative window")
	}

	cfg = base
	cfg.TrendMinIncreasePct = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero trend increase threshold")
	}
}
