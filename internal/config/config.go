// Package config loads encsign settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

// Environment variables that override file values.
const (
	EnvCurve          = "ENCSIGN_CURVE"
	EnvLogLevel       = "ENCSIGN_LOG_LEVEL"
	EnvLogFormat      = "ENCSIGN_LOG_FORMAT"
	EnvMaxSignAttempt = "ENCSIGN_MAX_SIGN_ATTEMPTS"
	EnvBatchWorkers   = "ENCSIGN_BATCH_WORKERS"
)

// Config holds every tunable of the command line tool.
type Config struct {
	Curve string      `yaml:"curve"`
	Log   LogConfig   `yaml:"log"`
	Sign  SignConfig  `yaml:"sign"`
	Batch BatchConfig `yaml:"batch"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// SignConfig configures the signing loop.
type SignConfig struct {
	// MaxAttempts bounds the sign-then-verify loop
	MaxAttempts int `yaml:"max_attempts"`
}

// BatchConfig configures batch verification.
type BatchConfig struct {
	Workers int    `yaml:"workers"` // 0 = one per CPU
	Format  string `yaml:"format"`  // json or csv
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Curve: "P-256",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Sign: SignConfig{
			MaxAttempts: 8,
		},
		Batch: BatchConfig{
			Workers: 0,
			Format:  "json",
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvCurve); v != "" {
		c.Curve = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvMaxSignAttempt); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxSignAttempt, err)
		}
		c.Sign.MaxAttempts = n
	}
	if v := os.Getenv(EnvBatchWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBatchWorkers, err)
		}
		c.Batch.Workers = n
	}
	return nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	var errs []error

	if _, err := NormalizeCurve(c.Curve); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}
	if c.Sign.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("sign.max_attempts must be at least 1, got %d", c.Sign.MaxAttempts))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}
	switch strings.ToLower(c.Batch.Format) {
	case "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("unsupported batch format %q", c.Batch.Format))
	}

	return errors.Join(errs...)
}

// NormalizeCurve maps the accepted spellings of a curve name to its canonical form.
func NormalizeCurve(name string) (string, error) {
	c, err := encsign.CurveByName(name)
	if err != nil {
		return "", err
	}
	return c.Name(), nil
}
