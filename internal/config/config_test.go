package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Autohide.ThresholdHiddenY != 1 {
		t.Errorf("expected default threshold-hidden-y 1, got %d", cfg.Autohide.ThresholdHiddenY)
	}
	if cfg.Autohide.ThresholdVisibleY != 50 {
		t.Errorf("expected default threshold-visible-y 50, got %d", cfg.Autohide.ThresholdVisibleY)
	}
	if cfg.Autohide.DelayShow != 0 {
		t.Errorf("expected default delay-show 0, got %d", cfg.Autohide.DelayShow)
	}
	if cfg.Autohide.DelayHide != 3000 {
		t.Errorf("expected default delay-hide 3000, got %d", cfg.Autohide.DelayHide)
	}
	if cfg.Autohide.CheckInterval != 100 {
		t.Errorf("expected default check-interval 100, got %d", cfg.Autohide.CheckInterval)
	}
	if cfg.Autohide.ConsecutiveChecksBeforeVisible != 2 {
		t.Errorf("expected default consecutive-checks-before-visible 2, got %d", cfg.Autohide.ConsecutiveChecksBeforeVisible)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
app_name = "shade"

[autohide]
threshold-visible-y = 80
delay-hide = 1500
consecutive-checks-before-visible = 3

[image]
path = "/tmp/cover.png"
interval = "5"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Autohide.ThresholdVisibleY != 80 {
		t.Errorf("expected threshold-visible-y 80, got %d", cfg.Autohide.ThresholdVisibleY)
	}
	if cfg.Autohide.DelayHide != 1500 {
		t.Errorf("expected delay-hide 1500, got %d", cfg.Autohide.DelayHide)
	}
	if cfg.Autohide.ConsecutiveChecksBeforeVisible != 3 {
		t.Errorf("expected consecutive-checks-before-visible 3, got %d", cfg.Autohide.ConsecutiveChecksBeforeVisible)
	}

	// Absent keys keep defaults
	if cfg.Autohide.ThresholdHiddenY != 1 {
		t.Errorf("expected default threshold-hidden-y 1, got %d", cfg.Autohide.ThresholdHiddenY)
	}
	if cfg.Autohide.CheckInterval != 100 {
		t.Errorf("expected default check-interval 100, got %d", cfg.Autohide.CheckInterval)
	}

	if cfg.Image.Path != "/tmp/cover.png" {
		t.Errorf("expected image path /tmp/cover.png, got %s", cfg.Image.Path)
	}
	if cfg.Image.Interval != "5" {
		t.Errorf("expected image interval 5, got %s", cfg.Image.Interval)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("autohide = ["), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig
	cfg.Autohide.DelayHide = 2000

	if err := SaveConfig(&cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Autohide.DelayHide != 2000 {
		t.Errorf("expected delay-hide 2000 after round trip, got %d", loaded.Autohide.DelayHide)
	}
}
