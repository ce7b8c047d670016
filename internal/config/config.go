// Package config handles reading and writing .grove/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .grove/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Story   StoryConfig   `yaml:"story"`
	Audio   AudioConfig   `yaml:"audio"`
	Log     LogConfig     `yaml:"log"`
	Journal JournalConfig `yaml:"journal"`
}

// StoryConfig selects the story to play.
type StoryConfig struct {
	// Path is a story YAML file or a built-in story name. Empty plays the
	// default built-in story.
	Path string `yaml:"path"`
}

// AudioConfig controls scene and choice tones.
type AudioConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Output         string  `yaml:"output"` // "none" | "wav"
	WAVPath        string  `yaml:"wav_path"`
	SampleRate     int     `yaml:"sample_rate"`
	SceneVolume    float64 `yaml:"scene_volume"`
	ChoiceVolume   float64 `yaml:"choice_volume"`
	NoteDurationMs int     `yaml:"note_duration_ms"` // scene notes
	OverlapRatio   float64 `yaml:"overlap_ratio"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty disables the diagnostic log
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// JournalConfig controls play history recording.
type JournalConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Database string `yaml:"database"`
}

// configDir is the directory relative to the project root.
const configDir = ".grove"
const configFile = "config.yaml"

// Dir returns the .grove directory inside the project directory.
func Dir(projectDir string) string {
	return filepath.Join(projectDir, configDir)
}

// ReadConfig reads .grove/config.yaml from the given project directory.
// dir is the project root (not .grove/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .grove/config.yaml in the given project directory.
// Creates the .grove/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Audio: AudioConfig{
			Enabled:        true,
			Output:         "none",
			WAVPath:        ".grove/tones.wav",
			SampleRate:     44100,
			SceneVolume:    0.5,
			ChoiceVolume:   0.4,
			NoteDurationMs: 200,
			OverlapRatio:   0.3,
		},
		Log: LogConfig{
			Level:      "INFO",
			File:       ".grove/grove.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Journal: JournalConfig{
			Enabled:  true,
			Database: ".grove/history.db",
		},
	}
}

// Resolve returns p relative to the project directory unless it is absolute.
func Resolve(projectDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir, p)
}
