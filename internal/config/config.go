package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/validate"
)

const (
	DefaultAlgorithm  = "bubble-sort"
	DefaultMode       = "timed"
	DefaultIntervalMs = 200
	DefaultTheme      = "default"
	DefaultDataDir    = "traces"
)

type Config struct {
	Algorithm  string            `yaml:"algorithm" toml:"algorithm"`
	Mode       string            `yaml:"mode" toml:"mode"`
	IntervalMs int               `yaml:"interval_ms" toml:"interval_ms"`
	Input      map[string]string `yaml:"input,omitempty" toml:"input,omitempty"`
	Theme      string            `yaml:"theme" toml:"theme"`
	DataDir    string            `yaml:"data_dir" toml:"data_dir"`
	Record     bool              `yaml:"record" toml:"record"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm:  DefaultAlgorithm,
		Mode:       DefaultMode,
		IntervalMs: DefaultIntervalMs,
		Theme:      DefaultTheme,
		DataDir:    DefaultDataDir,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or, for .toml files, TOML config on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := scheduler.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.IntervalMs <= 0 {
		return fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMs)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c *Config) SchedulerMode() scheduler.Mode {
	m, err := scheduler.ParseMode(c.Mode)
	if err != nil {
		return scheduler.Timed
	}
	return m
}

// GetInput returns the configured input, or nil when none is set.
func (c *Config) GetInput() validate.Input {
	if len(c.Input) == 0 {
		return nil
	}
	return validate.Input(c.Input).Clone()
}
