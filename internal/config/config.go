// Package config loads the settings of the mztab command from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mzidentml"
)

// Config is the complete configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Validate ValidateConfig `yaml:"validate"`
	Convert  ConvertConfig  `yaml:"convert"`
}

// LogConfig configures the logger
type LogConfig struct {
	// Mode is "dev" (console) or "prod" (JSON)
	Mode string `yaml:"mode"`
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// ValidateConfig configures reading and checking mzTab files
type ValidateConfig struct {
	// Level is the lowest error level that is reported
	Level string `yaml:"level"`
	// MaxErrors stops reading a file once this many errors were found
	MaxErrors int `yaml:"max_errors"`
	// Jobs is the number of files checked at the same time
	Jobs int `yaml:"jobs"`
	// CheckSpectra looks up every spectra_ref in the referenced mzML file
	CheckSpectra bool `yaml:"check_spectra"`
}

// ConvertConfig configures mzIdentML conversion
type ConvertConfig struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	PassThreshold bool   `yaml:"pass_threshold"`
	ScoreFilter   string `yaml:"score_filter"`
}

// DefaultConfig returns a Config with the defaults of the command line
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
		Validate: ValidateConfig{
			Level:     "Warn",
			MaxErrors: mzerr.DefaultMaxErrors,
			Jobs:      runtime.NumCPU(),
		},
	}
}

// Check reports whether the configuration is valid
func (c *Config) Check() error {
	switch c.Log.Mode {
	case "dev", "prod":
	default:
		return fmt.Errorf("log.mode must be dev or prod, got %q", c.Log.Mode)
	}
	if _, ok := mzerr.ParseLevel(c.Validate.Level); !ok {
		return fmt.Errorf("validate.level %q is not info, warn or error", c.Validate.Level)
	}
	if c.Validate.MaxErrors < 1 {
		return fmt.Errorf("validate.max_errors must be at least 1")
	}
	if c.Validate.Jobs < 1 {
		return fmt.Errorf("validate.jobs must be at least 1")
	}
	if _, err := mzidentml.ParseScoreFilter(c.Convert.ScoreFilter); err != nil {
		return fmt.Errorf("convert.score_filter: %w", err)
	}
	return nil
}

// ErrorLevel returns the parsed validate.level
func (c *Config) ErrorLevel() mzerr.Level {
	lvl, _ := mzerr.ParseLevel(c.Validate.Level)
	return lvl
}

// LoadFromFile loads configuration from a YAML file. Keys that are not in
// the file keep their default.
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// readLayer decodes path into a zero Config, so that only the keys present
// in the file are set.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return layer, nil
}

// SaveToFile writes the configuration as YAML
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge copies the non-zero values of other into c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Log.Mode != "" {
		c.Log.Mode = other.Log.Mode
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Validate.Level != "" {
		c.Validate.Level = other.Validate.Level
	}
	if other.Validate.MaxErrors != 0 {
		c.Validate.MaxErrors = other.Validate.MaxErrors
	}
	if other.Validate.Jobs != 0 {
		c.Validate.Jobs = other.Validate.Jobs
	}
	if other.Validate.CheckSpectra {
		c.Validate.CheckSpectra = true
	}

	if other.Convert.Title != "" {
		c.Convert.Title = other.Convert.Title
	}
	if other.Convert.Description != "" {
		c.Convert.Description = other.Convert.Description
	}
	if other.Convert.PassThreshold {
		c.Convert.PassThreshold = true
	}
	if other.Convert.ScoreFilter != "" {
		c.Convert.ScoreFilter = other.Convert.ScoreFilter
	}
}
