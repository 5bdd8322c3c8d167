// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/dateutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "YNAB_CSV"

// PreambleCellSeparator splits a configured preamble line into cells.
const PreambleCellSeparator = "|"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
		QuoteAll       bool   `mapstructure:"quote_all" yaml:"quote_all"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		Exclusions      []string `mapstructure:"exclusions" yaml:"exclusions"`
		RedactionMarker string   `mapstructure:"redaction_marker" yaml:"redaction_marker"`
		RedactionLabel  string   `mapstructure:"redaction_label" yaml:"redaction_label"`
		Totals          string   `mapstructure:"totals" yaml:"totals"`
		Preamble        []string `mapstructure:"preamble" yaml:"preamble"`
		CurrencyLocale  string   `mapstructure:"currency_locale" yaml:"currency_locale"`
		// Now pins the reference month; empty means the wall clock.
		Now string `mapstructure:"now" yaml:"now"`
	} `mapstructure:"report" yaml:"report"`

	Server struct {
		Address        string   `mapstructure:"address" yaml:"address"`
		AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ynab-csv")
	v.AddConfigPath(".ynab-csv")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)
	v.SetDefault("csv.quote_all", true)

	// Report defaults
	v.SetDefault("report.exclusions", []string{"Credit Card", "NoExport"})
	v.SetDefault("report.redaction_marker", "Redact")
	v.SetDefault("report.redaction_label", "Redacted")
	v.SetDefault("report.totals", "sum")
	v.SetDefault("report.preamble", []string{})
	v.SetDefault("report.currency_locale", currencyutils.DefaultLocale)
	v.SetDefault("report.now", "")

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"https://app.ynab.com"})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate report settings
	switch strings.ToLower(config.Report.Totals) {
	case "sum", "formula":
	default:
		return fmt.Errorf("invalid report.totals: %s (must be 'sum' or 'formula')", config.Report.Totals)
	}
	if config.Report.RedactionMarker != "" && config.Report.RedactionLabel == "" {
		return fmt.Errorf("report.redaction_label is required when report.redaction_marker is set")
	}
	if _, err := currencyutils.NewFormatter(config.Report.CurrencyLocale); err != nil {
		return fmt.Errorf("invalid report.currency_locale: %w", err)
	}
	if _, err := dateutils.ParseReferenceTime(config.Report.Now); err != nil {
		return fmt.Errorf("invalid report.now: %w", err)
	}

	// Validate server address
	if strings.TrimSpace(config.Server.Address) == "" {
		return fmt.Errorf("server.address must not be empty")
	}

	return nil
}

// Validate checks a configuration assembled outside InitializeConfig, for
// instance after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// PreambleRows splits each configured preamble line into cells.
func (c *Config) PreambleRows() [][]string {
	rows := make([][]string, 0, len(c.Report.Preamble))
	for _, line := range c.Report.Preamble {
		parts := strings.Split(line, PreambleCellSeparator)
		cells := make([]string, 0, len(parts))
		for _, p := range parts {
			cells = append(cells, strings.TrimSpace(p))
		}
		rows = append(rows, cells)
	}
	return rows
}

// ReferenceTime returns the configured reference time, or the wall clock
// when report.now is empty.
func (c *Config) ReferenceTime() (time.Time, error) {
	t, err := dateutils.ParseReferenceTime(c.Report.Now)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Now(), nil
	}
	return t, nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
