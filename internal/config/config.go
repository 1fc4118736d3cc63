// Package config provides the player's configuration: audio device
// tuning and log level, loaded from a single YAML file in the OS
// config directory.
//
// Default location:
//
//	~/Library/Application Support/ogkaraoke/config.yaml   (macOS)
//	~/.config/ogkaraoke/config.yaml                        (Linux)
//	%AppData%/ogkaraoke/config.yaml                        (Windows)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const appDir = "ogkaraoke"
const fileName = "config.yaml"

// Config holds the player's tunable settings. Every field has a
// sensible default applied by Default(); YAML files only need to
// override what they change.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// AudioCommandQueueDepth bounds the player-to-audio SPSC command
	// queue.
	AudioCommandQueueDepth int `yaml:"audio_command_queue_depth"`

	// RingBufferCapacity bounds the per-stream PCM ring buffer in
	// stereo frames. The default, 96000, is two seconds at 48 kHz; the
	// ring rounds it up to the next power of two minus one.
	RingBufferCapacity int `yaml:"ring_buffer_capacity"`

	// VideoPrimeMillis is how far ahead of the audio clock the
	// player pumps demux before starting playback.
	VideoPrimeMillis int `yaml:"video_prime_millis"`

	// PumpAheadMillis is how far beyond the current audio timestamp
	// the player keeps pumping demux during playback.
	PumpAheadMillis int `yaml:"pump_ahead_millis"`
}

// Default returns the built-in configuration used when no file is
// present or a field is left unset.
func Default() Config {
	return Config{
		LogLevel:               "info",
		AudioCommandQueueDepth: 16,
		RingBufferCapacity:     96_000,
		VideoPrimeMillis:       1,
		PumpAheadMillis:        1,
	}
}

// Path returns the default config file path for the current user.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file at the default path, overlaying it on
// Default(). A missing file is not an error: Default() is returned
// unchanged.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and parses a config file at an explicit path,
// overlaying its fields on Default(). A missing file yields Default().
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the default config path, creating its parent
// directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
