package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	AppName    string          `toml:"app_name"`
	SocketPath string          `toml:"socket_path"`
	Bar        BarConfig       `toml:"bar"`
	Autohide   AutohideConfig  `toml:"autohide"`
	Modules    []string        `toml:"modules"`
	Image      ImageConfig     `toml:"image"`
	Cava       CavaConfig      `toml:"cava"`
	IconLabel  IconLabelConfig `toml:"icon_label"`
}

type BarConfig struct {
	Height  int    `toml:"height"`
	Monitor string `toml:"monitor"` // empty means primary
}

// AutohideConfig mirrors the autohide module's tuning knobs. All delays and
// intervals are milliseconds.
type AutohideConfig struct {
	Enabled                        bool `toml:"enabled"`
	ThresholdHiddenY               uint `toml:"threshold-hidden-y"`
	ThresholdVisibleY              uint `toml:"threshold-visible-y"`
	DelayShow                      uint `toml:"delay-show"`
	DelayHide                      uint `toml:"delay-hide"`
	CheckInterval                  uint `toml:"check-interval"`
	ConsecutiveChecksBeforeVisible uint `toml:"consecutive-checks-before-visible"`
}

type ImageConfig struct {
	Path     string `toml:"path"`
	Exec     string `toml:"exec"`
	Size     int    `toml:"size"`
	Interval string `toml:"interval"` // seconds, or "once"
}

type CavaConfig struct {
	Bars          int    `toml:"bars"`
	Framerate     int    `toml:"framerate"`
	HideOnSilence bool   `toml:"hide_on_silence"`
	FormatSilent  string `toml:"format_silent"`
	Method        string `toml:"method"` // audio input method passed to cava
}

type IconLabelConfig struct {
	IconSpacing   int  `toml:"icon-spacing"`
	SwapIconLabel bool `toml:"swap-icon-label"`
	Rotate        int  `toml:"rotate"`
	Icon          bool `toml:"icon"`
}

var DefaultConfig = Config{
	AppName:    "shade",
	SocketPath: "/tmp/shade.sock",
	Bar: BarConfig{
		Height: 30,
	},
	Autohide: AutohideConfig{
		Enabled:                        true,
		ThresholdHiddenY:               1,
		ThresholdVisibleY:              50,
		DelayShow:                      0,
		DelayHide:                      3000,
		CheckInterval:                  100,
		ConsecutiveChecksBeforeVisible: 2,
	},
	Modules: []string{"image", "cava"},
	Image: ImageConfig{
		Size:     16,
		Interval: "once",
	},
	Cava: CavaConfig{
		Bars:      12,
		Framerate: 30,
	},
	IconLabel: IconLabelConfig{
		IconSpacing: 8,
		Icon:        true,
	},
}

// LoadConfig reads a TOML config from path. Absent keys keep their defaults;
// a missing file yields the full default config.
func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	cfg := DefaultConfig

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return &cfg, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SocketPath = expandPath(cfg.SocketPath)
	cfg.Image.Path = expandPath(cfg.Image.Path)

	return &cfg, nil
}

// SaveConfig writes the config as TOML to path, creating parent directories
func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(expandedPath, data, 0644)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}
