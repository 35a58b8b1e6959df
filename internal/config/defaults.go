package config

import (
	"git.home.luguber.info/inful/weeklysync/internal/fetch"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

// Reference locations used when no configuration file is present.
const (
	DefaultConfigPath = "weeklysync.yaml"
	DefaultSourceURL  = "https://raw.githubusercontent.com/ruanyf/weekly/master/README.md"
	DefaultCachePath  = "./tmp/ruanyf_weekly_README.md"
	DefaultOutputPath = "./web/data/ruanyf-weekly.yml"
)

// Defaults returns a fully populated configuration.
func Defaults() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       DefaultSourceURL,
			CachePath: DefaultCachePath,
		},
		Output: OutputConfig{
			Path:   DefaultOutputPath,
			Policy: taxonomy.PolicyReplace,
		},
		HTTP: HTTPConfig{
			Timeout:      fetch.DefaultTimeout,
			MaxBodyBytes: fetch.DefaultMaxBodyBytes,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}
