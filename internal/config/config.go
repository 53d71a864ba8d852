// Package config loads CLI settings from a TOML or YAML file with
// environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/roach88/byakoron/internal/logging"
	"github.com/roach88/byakoron/internal/translit"
)

// Config holds CLI settings. Command-line flags override these values.
type Config struct {
	// Mode is the default conversion mode identifier.
	Mode string `toml:"mode" yaml:"mode" json:"mode"`

	// Rules is a rule document path. Empty selects the built-in table.
	Rules string `toml:"rules" yaml:"rules" json:"rules"`

	// Journal is the SQLite journal path. Empty disables journaling.
	Journal string `toml:"journal" yaml:"journal" json:"journal"`

	// NFC normalizes reverse-mode input before scanning.
	NFC bool `toml:"nfc" yaml:"nfc" json:"nfc"`

	// CacheSize bounds the result cache. Zero disables it.
	CacheSize int `toml:"cache_size" yaml:"cache_size" json:"cache_size"`

	Log LogConfig `toml:"log" yaml:"log" json:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Format string `toml:"format" yaml:"format" json:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mode:      "avro",
		CacheSize: 1024,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads only defaults and environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		if err := autoDetectAndParse(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func autoDetectAndParse(data []byte, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err == nil {
		return nil
	}
	if err := json.Unmarshal(data, cfg); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err == nil {
		return nil
	}
	return fmt.Errorf("unable to parse config file (tried TOML, JSON, YAML)")
}

// ApplyEnvOverrides applies BYAKORON_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("BYAKORON_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("BYAKORON_RULES"); v != "" {
		c.Rules = v
	}
	if v := os.Getenv("BYAKORON_JOURNAL"); v != "" {
		c.Journal = v
	}
	if v := os.Getenv("BYAKORON_NFC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NFC = b
		}
	}
	if v := os.Getenv("BYAKORON_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v := os.Getenv("BYAKORON_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BYAKORON_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks the settings and returns every problem found.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if _, ok := translit.ParseMode(c.Mode); !ok {
		errs = multierror.Append(errs, fmt.Errorf("mode: unsupported mode %q", c.Mode))
	}
	if c.CacheSize < 0 {
		errs = multierror.Append(errs, fmt.Errorf("cache_size: must not be negative, got %d", c.CacheSize))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log.format: %w", err))
	}
	return errs.ErrorOrNil()
}

// Logging converts the log settings. Call after Validate.
func (c *Config) Logging() logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.Config{Level: level, Format: format}
}

// TranslitOptions returns the transliterator options implied by c.
func (c *Config) TranslitOptions() []translit.Option {
	var opts []translit.Option
	if c.CacheSize > 0 {
		opts = append(opts, translit.WithCache(c.CacheSize))
	}
	if c.NFC {
		opts = append(opts, translit.WithNFC())
	}
	return opts
}
