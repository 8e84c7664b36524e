package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("REPORT_TIME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "lifeos.db" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.ReportTime != "08:00" {
		t.Errorf("report time = %q", cfg.ReportTime)
	}
	if cfg.OpenRouterAPIKey != "" {
		t.Errorf("openrouter key should default empty, got %q", cfg.OpenRouterAPIKey)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "  ")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing token")
	}
}
