package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/pc-beeper/internal/domain/beep"
	"github.com/oshokin/pc-beeper/internal/hardware/ioport"
	"github.com/oshokin/pc-beeper/internal/logger"
)

// Config holds the tunables of pc-beeper.
type Config struct {
	// Device is the path of the I/O-port device.
	Device string `yaml:"device"`
	// BaseClockHz is the PIT input clock.
	BaseClockHz uint32 `yaml:"base_clock_hz"`
	// MaxSteps bounds the number of steps accepted from the command line.
	MaxSteps int `yaml:"max_steps"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Exclusive refuses to play while another pc-beeper process is running.
	Exclusive *bool `yaml:"exclusive"`
	// Defaults are the values every new step starts with.
	Defaults StepDefaults `yaml:"defaults"`
}

// StepDefaults is the YAML form of the default step.
type StepDefaults struct {
	// Frequency in Hz.
	Frequency uint32 `yaml:"frequency"`
	// DurationMS is the tone length in milliseconds.
	DurationMS *uint32 `yaml:"duration_ms"`
	// DelayMS is the pause after the step in milliseconds.
	DelayMS uint32 `yaml:"delay_ms"`
}

const (
	// DefaultConfigFilename is the conventional settings file name.
	DefaultConfigFilename = "pc-beeper.yaml"

	// DefaultFilePermissions is the permission used when saving settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeMaxSteps is returned for a negative step limit.
	errNegativeMaxSteps = errors.New("max_steps must not be negative")
	// errUnknownLogLevel is returned for an unrecognised log level.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns the built-in settings.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from path and validates it.
// Missing keys fall back to the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the rest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MaxSteps < 0 {
		return errNegativeMaxSteps
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	applyDefaults(cfg)

	if _, err := beep.Divisor(cfg.BaseClockHz, cfg.Defaults.Frequency); err != nil {
		return fmt.Errorf("invalid default frequency: %w", err)
	}

	return nil
}

// IsExclusive reports whether concurrent instances must be refused.
func (c *Config) IsExclusive() bool {
	return c.Exclusive == nil || *c.Exclusive
}

// DefaultStep converts the YAML defaults into a domain step.
func (c *Config) DefaultStep() beep.Step {
	step := beep.DefaultStep()

	if c.Defaults.Frequency != 0 {
		step.Frequency = c.Defaults.Frequency
	}

	if c.Defaults.DurationMS != nil {
		step.Duration = time.Duration(*c.Defaults.DurationMS) * time.Millisecond
	}

	step.Delay = time.Duration(c.Defaults.DelayMS) * time.Millisecond

	return step
}

// applyDefaults sets every zero-valued field to its built-in value.
func applyDefaults(cfg *Config) {
	if cfg.Device == "" {
		cfg.Device = ioport.DefaultDevicePath
	}

	if cfg.BaseClockHz == 0 {
		cfg.BaseClockHz = beep.BaseClockHz
	}

	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = beep.MaxSteps
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Defaults.Frequency == 0 {
		cfg.Defaults.Frequency = beep.DefaultFrequency
	}

	if cfg.Defaults.DurationMS == nil {
		ms := uint32(beep.DefaultDuration / time.Millisecond)
		cfg.Defaults.DurationMS = &ms
	}
}
