package app

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UpstreamBaseURL == "" {
		t.Error("UpstreamBaseURL should not be empty")
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.SessionFile == "" {
		t.Error("SessionFile should not be empty")
	}
	if cfg.ViewMode != domain.ViewModePending {
		t.Errorf("expected pending view mode, got %s", cfg.ViewMode)
	}
	if cfg.AutoRefreshInterval != time.Minute {
		t.Errorf("expected 1m auto refresh, got %s", cfg.AutoRefreshInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViewMode = domain.ViewMode("kanban")

	if err := cfg.Validate(); err != domain.ErrInvalidViewMode {
		t.Errorf("expected ErrInvalidViewMode, got %v", err)
	}
}
