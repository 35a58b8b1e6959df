// Package config loads the weeklysync YAML configuration.
//
// Every field has a default, so running without a configuration file
// reproduces the reference behavior. Environment variables are never read.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/weeklysync/internal/fetch"
	"git.home.luguber.info/inful/weeklysync/internal/foundation"
	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
	"git.home.luguber.info/inful/weeklysync/internal/weekly"
)

// Config represents the application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourceConfig locates the README and its local copy.
type SourceConfig struct {
	URL       string `yaml:"url"`
	CachePath string `yaml:"cache_path"`
}

// OutputConfig locates the Hugo data file and picks the write policy.
type OutputConfig struct {
	Path   string          `yaml:"path"`
	Policy taxonomy.Policy `yaml:"policy"`
}

// HTTPConfig tunes the single download request.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile dump when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads the YAML file at path on top of Defaults. When the file does not
// exist and required is false the defaults are returned unchanged.
func Load(path string, required bool) (*Config, error) {
	cfg := Defaults()

	// #nosec G304 -- path is the operator supplied config file.
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).Build()
	case err != nil:
		return nil, ferrors.IOError("read config file").WithCause(err).WithContext("path", path).Build()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.ConfigError("failed to unmarshal config").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize canonicalizes enum-like fields and fills zero values with defaults.
func (c *Config) Normalize() error {
	def := Defaults()

	policy, err := taxonomy.ParsePolicy(string(c.Output.Policy))
	if err != nil {
		return ferrors.ConfigError("invalid output.policy").WithCause(err).Build()
	}
	c.Output.Policy = policy

	level, err := logLevelNormalizer.Parse(string(c.Logging.Level))
	if err != nil {
		return ferrors.ConfigError("invalid logging.level").WithCause(err).Build()
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.Parse(string(c.Logging.Format))
	if err != nil {
		return ferrors.ConfigError("invalid logging.format").WithCause(err).Build()
	}
	c.Logging.Format = format

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.HTTP.MaxBodyBytes == 0 {
		c.HTTP.MaxBodyBytes = def.HTTP.MaxBodyBytes
	}
	c.Source.URL = strings.TrimSpace(c.Source.URL)
	c.Source.CachePath = strings.TrimSpace(c.Source.CachePath)
	c.Output.Path = strings.TrimSpace(c.Output.Path)
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
	return nil
}

var configValidators = foundation.NewValidatorChain(
	foundation.Required("source.url", func(c *Config) string { return c.Source.URL }),
	foundation.Check("source.url", "url", "must be an absolute http or https URL", func(c *Config) bool {
		return c.Source.URL == "" || fetch.ValidateURL(c.Source.URL) == nil
	}),
	foundation.Required("source.cache_path", func(c *Config) string { return c.Source.CachePath }),
	foundation.Required("output.path", func(c *Config) string { return c.Output.Path }),
	foundation.Check("output.path", "distinct", "must differ from source.cache_path", func(c *Config) bool {
		return c.Output.Path == "" || filepath.Clean(c.Source.CachePath) != filepath.Clean(c.Output.Path)
	}),
	foundation.OneOf("output.policy", func(c *Config) taxonomy.Policy { return c.Output.Policy },
		taxonomy.PolicyReplace, taxonomy.PolicyMerge),
	foundation.Check("http.timeout", "min", "cannot be negative", func(c *Config) bool { return c.HTTP.Timeout >= 0 }),
	foundation.Check("http.max_body_bytes", "min", "cannot be negative", func(c *Config) bool { return c.HTTP.MaxBodyBytes >= 0 }),
)

// Validate reports every configuration problem as one config error.
func (c *Config) Validate() error {
	return configValidators.Validate(c).ToError(ferrors.CategoryConfig, "invalid configuration")
}

// SyncOptions converts the configuration into pipeline inputs.
func (c *Config) SyncOptions() weekly.Options {
	return weekly.Options{
		SourceURL:  c.Source.URL,
		CachePath:  c.Source.CachePath,
		OutputPath: c.Output.Path,
		Policy:     c.Output.Policy,
	}
}

// Init writes an example configuration file with the default values.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.IOError("create config directory").WithCause(err).WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.IOError("failed to write config file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
