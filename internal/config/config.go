package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LibraryFolder string `koanf:"library_folder"` // path scanned for audio files at startup

	// Playback behaviour
	Playback PlaybackConfig `koanf:"playback"`

	// Desktop integration
	Notifications *bool `koanf:"notifications"` // desktop notifications (default: true)
	Mpris         *bool `koanf:"mpris"`         // MPRIS media controls (default: true)

	// Output routing
	Bluetooth BluetoothConfig `koanf:"bluetooth"`
}

// PlaybackConfig holds focus and volume behaviour settings.
type PlaybackConfig struct {
	DuckVolume               float64 `koanf:"duck_volume"`                 // volume while ducked (0.0-1.0, default: 0.3)
	ResumeAfterTransientLoss *bool   `koanf:"resume_after_transient_loss"` // auto-resume when focus returns (default: true)
}

// BluetoothConfig holds wireless route monitoring settings.
type BluetoothConfig struct {
	Watch *bool `koanf:"watch"` // watch BlueZ for device connect/disconnect (default: true)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in library_folder
	if cfg.LibraryFolder != "" {
		cfg.LibraryFolder = expandPath(cfg.LibraryFolder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/afot-player/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "afot-player", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// NotificationsEnabled reports whether desktop notifications should run.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MprisEnabled reports whether the MPRIS adapter should run.
func (c *Config) MprisEnabled() bool {
	return c.Mpris == nil || *c.Mpris
}

// BluetoothWatchEnabled reports whether the BlueZ route watcher should run.
func (c *Config) BluetoothWatchEnabled() bool {
	return c.Bluetooth.Watch == nil || *c.Bluetooth.Watch
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.DuckVolume <= 0 || cfg.DuckVolume > 1 {
		cfg.DuckVolume = 0.3
	}

	return cfg
}

// ResumeAfterTransientLoss reports whether playback auto-resumes when a
// transient focus loss ends.
func (c *Config) ResumeAfterTransientLoss() bool {
	return c.Playback.ResumeAfterTransientLoss == nil || *c.Playback.ResumeAfterTransientLoss
}
