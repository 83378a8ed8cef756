//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	// Should have at least one path
	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	// If we have home dir, first path should be ~/.config/afot-player/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "afot-player", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestFeatureToggles_Defaults(t *testing.T) {
	cfg := Config{}

	if !cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() should default to true")
	}
	if !cfg.MprisEnabled() {
		t.Error("MprisEnabled() should default to true")
	}
	if !cfg.BluetoothWatchEnabled() {
		t.Error("BluetoothWatchEnabled() should default to true")
	}
	if !cfg.ResumeAfterTransientLoss() {
		t.Error("ResumeAfterTransientLoss() should default to true")
	}
}

func TestFeatureToggles_Disabled(t *testing.T) {
	off := false
	cfg := Config{
		Notifications: &off,
		Mpris:         &off,
		Bluetooth:     BluetoothConfig{Watch: &off},
		Playback:      PlaybackConfig{ResumeAfterTransientLoss: &off},
	}

	if cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true, want false")
	}
	if cfg.MprisEnabled() {
		t.Error("MprisEnabled() = true, want false")
	}
	if cfg.BluetoothWatchEnabled() {
		t.Error("BluetoothWatchEnabled() = true, want false")
	}
	if cfg.ResumeAfterTransientLoss() {
		t.Error("ResumeAfterTransientLoss() = true, want false")
	}
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := Config{}
	playback := cfg.GetPlaybackConfig()

	if playback.DuckVolume != 0.3 {
		t.Errorf("DuckVolume = %f, want 0.3", playback.DuckVolume)
	}
}

func TestGetPlaybackConfig_CustomValues(t *testing.T) {
	cfg := Config{
		Playback: PlaybackConfig{
			DuckVolume: 0.5,
		},
	}

	playback := cfg.GetPlaybackConfig()
	if playback.DuckVolume != 0.5 {
		t.Errorf("DuckVolume = %f, want 0.5", playback.DuckVolume)
	}
}

func TestGetPlaybackConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name       string
		duckVolume float64
		expected   float64
	}{
		{name: "zero becomes default", duckVolume: 0, expected: 0.3},
		{name: "negative becomes default", duckVolume: -0.2, expected: 0.3},
		{name: "above one becomes default", duckVolume: 1.5, expected: 0.3},
		{name: "upper bound kept", duckVolume: 1.0, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Playback: PlaybackConfig{DuckVolume: tt.duckVolume}}
			playback := cfg.GetPlaybackConfig()
			if playback.DuckVolume != tt.expected {
				t.Errorf("DuckVolume = %f, want %f", playback.DuckVolume, tt.expected)
			}
		})
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	// Create temp directory with empty config
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	// Create an empty config file
	if err := os.WriteFile("config.toml", []byte(""), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	// Load should succeed even with empty config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	// Create config file
	configContent := `
library_folder = "~/music"
notifications = false

[playback]
duck_volume = 0.4
resume_after_transient_loss = false

[bluetooth]
watch = false
`
	if err := os.WriteFile("config.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Library folder should have ~ expanded
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "music")
	if cfg.LibraryFolder != expected {
		t.Errorf("LibraryFolder = %q, want %q", cfg.LibraryFolder, expected)
	}

	if cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true, want false")
	}
	if cfg.BluetoothWatchEnabled() {
		t.Error("BluetoothWatchEnabled() = true, want false")
	}
	if cfg.ResumeAfterTransientLoss() {
		t.Error("ResumeAfterTransientLoss() = true, want false")
	}

	playback := cfg.GetPlaybackConfig()
	if playback.DuckVolume != 0.4 {
		t.Errorf("DuckVolume = %f, want 0.4", playback.DuckVolume)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	// Create invalid config file
	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	_, err = Load()
	if err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}
