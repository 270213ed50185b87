// Package config loads the CLI's YAML settings. The fitting core never
// reads it; commands turn it into explicit job parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/profile"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Profile names a preset band. MinKB/MaxKB override it when non-zero.
	Profile    string `yaml:"profile"`
	MinKB      int    `yaml:"min_kb,omitempty"`
	MaxKB      int    `yaml:"max_kb,omitempty"`
	OutputDir  string `yaml:"output_dir"`
	AutoOrient bool   `yaml:"auto_orient"`
	CWebPPath  string `yaml:"cwebp_path,omitempty"`
}

// Default returns the first-run configuration.
func Default() Config {
	return Config{
		Profile:    "default",
		OutputDir:  "./resized",
		AutoOrient: true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bandfit/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "bandfit", "config.yaml"), nil
}

// Load reads and validates the configuration file. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the fields that cannot be clamped.
func (c Config) Validate() error {
	if c.Profile != "" {
		if _, ok := profile.Lookup(c.Profile); !ok {
			return fmt.Errorf("unknown profile %q", c.Profile)
		}
	}
	if c.MinKB < 0 || c.MaxKB < 0 {
		return fmt.Errorf("min_kb and max_kb must not be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}

// Band resolves the configured band: profile first, then explicit KB
// bounds, then the clamping rules.
func (c Config) Band() (fit.Band, error) {
	p := profile.Get(c.Profile)
	if c.Profile == "" {
		p = profile.Get("default")
	}
	minKB, maxKB := p.MinKB, p.MaxKB
	if c.MinKB > 0 {
		minKB = c.MinKB
	}
	if c.MaxKB > 0 {
		maxKB = c.MaxKB
	}
	minKB, maxKB = profile.Clamp(minKB, maxKB)
	return fit.BandKB(minKB, maxKB)
}
