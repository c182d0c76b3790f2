// Package config loads daemon settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
)

// Config is the full daemon configuration. Durations use Go syntax in YAML
// ("25m", "100ms").
type Config struct {
	Focus          time.Duration `yaml:"focus"`
	Break          time.Duration `yaml:"break"`
	MaxBreaks      int           `yaml:"max_breaks"`
	ReportInterval time.Duration `yaml:"report_interval"`
	Guard          time.Duration `yaml:"guard"`
	Poll           time.Duration `yaml:"poll"`
	Debounce       time.Duration `yaml:"debounce"`
	Heartbeat      time.Duration `yaml:"heartbeat"`
	Broker         string        `yaml:"broker"`
	HTTP           string        `yaml:"http"`
	Chip           string        `yaml:"chip"`
	Pins           gpio.Pins     `yaml:"pins"`
}

// Default returns the production configuration.
func Default() Config {
	lc := logic.DefaultConfig()
	return Config{
		Focus:          lc.FocusDuration,
		Break:          lc.BreakDuration,
		MaxBreaks:      lc.MaxBreaks,
		ReportInterval: lc.ReportInterval,
		Guard:          lc.DebounceGuard,
		Poll:           10 * time.Millisecond,
		Debounce:       logic.DefaultDebounce,
		Heartbeat:      15 * time.Minute,
		Broker:         "tcp://localhost:1883",
		HTTP:           ":8080",
		Chip:           gpio.DefaultChip,
		Pins:           gpio.DefaultPins(),
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default value. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate rejects durations the control loop cannot run with.
func (c Config) Validate() error {
	if c.Focus <= 0 {
		return fmt.Errorf("focus must be positive, got %v", c.Focus)
	}
	if c.Break <= 0 {
		return fmt.Errorf("break must be positive, got %v", c.Break)
	}
	if c.Poll <= 0 {
		return fmt.Errorf("poll must be positive, got %v", c.Poll)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be positive, got %v", c.ReportInterval)
	}
	if c.Debounce < 0 || c.Guard < 0 || c.Heartbeat < 0 {
		return errors.New("debounce, guard and heartbeat must not be negative")
	}
	return nil
}

// Logic returns the state machine configuration.
func (c Config) Logic() logic.Config {
	return logic.Config{
		FocusDuration:  c.Focus,
		BreakDuration:  c.Break,
		MaxBreaks:      c.MaxBreaks,
		ReportInterval: c.ReportInterval,
		DebounceGuard:  c.Guard,
	}
}
