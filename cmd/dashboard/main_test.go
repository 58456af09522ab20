package main

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/omd/internal/app"
	"github.com/vladislavdragonenkov/omd/internal/domain"
)

func TestReadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(nil))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}
	if cfg != app.DefaultConfig() {
		t.Fatalf("expected default config, got %#v", cfg)
	}
}

func TestReadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envUpstreamBaseURL:      " https://api.example.com ",
		envMetricsAddr:          "localhost:9091",
		envSessionFile:          "/tmp/omd-session.json",
		envBranchID:             " 7 ",
		envViewMode:             " Branch ",
		envPageSize:             "25",
		envAutoRefreshInterval:  "0s",
		envSessionCheckInterval: "10s",
		envHTTPTimeout:          "3s",
	}))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if cfg.UpstreamBaseURL != "https://api.example.com" {
		t.Fatalf("unexpected upstream url: %s", cfg.UpstreamBaseURL)
	}
	if cfg.MetricsAddr != "localhost:9091" {
		t.Fatalf("unexpected metrics addr: %s", cfg.MetricsAddr)
	}
	if cfg.SessionFile != "/tmp/omd-session.json" {
		t.Fatalf("unexpected session file: %s", cfg.SessionFile)
	}
	if cfg.BranchID != "7" {
		t.Fatalf("unexpected branch id: %s", cfg.BranchID)
	}
	if cfg.ViewMode != domain.ViewModeBranch {
		t.Fatalf("unexpected view mode: %s", cfg.ViewMode)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize)
	}
	if cfg.AutoRefreshInterval != 0 {
		t.Fatalf("expected auto refresh disabled, got %s", cfg.AutoRefreshInterval)
	}
	if cfg.SessionCheckInterval != 10*time.Second {
		t.Fatalf("unexpected session check interval: %s", cfg.SessionCheckInterval)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected http timeout: %s", cfg.HTTPTimeout)
	}
}

func TestReadConfigFromEnv_InvalidValuesFallbackToDefaults(t *testing.T) {
	defaultCfg := app.DefaultConfig()

	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envViewMode:             "kanban",
		envPageSize:             "zero",
		envAutoRefreshInterval:  "-1s",
		envSessionCheckInterval: "0s",
		envHTTPTimeout:          "fast",
	}))

	if len(warnings) != 5 {
		t.Fatalf("expected 5 warnings, got %d: %v", len(warnings), warnings)
	}
	if cfg.ViewMode != defaultCfg.ViewMode {
		t.Fatal("expected ViewMode to keep default on invalid value")
	}
	if cfg.PageSize != defaultCfg.PageSize {
		t.Fatal("expected PageSize to keep default on invalid value")
	}
	if cfg.AutoRefreshInterval != defaultCfg.AutoRefreshInterval {
		t.Fatal("expected AutoRefreshInterval to keep default on invalid value")
	}
	if cfg.SessionCheckInterval != defaultCfg.SessionCheckInterval {
		t.Fatal("expected SessionCheckInterval to keep default on invalid value")
	}
	if cfg.HTTPTimeout != defaultCfg.HTTPTimeout {
		t.Fatal("expected HTTPTimeout to keep default on invalid value")
	}
}

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt(" 25 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 25 {
		t.Fatalf("unexpected value: %d", n)
	}

	if _, err := parsePositiveInt("0"); err == nil {
		t.Fatal("expected error for zero")
	}
	if _, err := parsePositiveInt("many"); err == nil {
		t.Fatal("expected error for non-integer")
	}
}

func TestParseInterval(t *testing.T) {
	d, err := parseInterval("90s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 90*time.Second {
		t.Fatalf("unexpected duration: %s", d)
	}

	if _, err := parseInterval("-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}

	// Ноль допустим: так отключается автообновление.
	if d, err := parseInterval("0"); err != nil || d != 0 {
		t.Fatalf("expected zero duration, got %s, %v", d, err)
	}

	if _, err := parsePositiveInterval("0s"); err == nil {
		t.Fatal("expected error for zero positive interval")
	}
}
