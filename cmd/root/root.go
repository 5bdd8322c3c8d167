// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/ynab-csv/internal/config"
	"fjacquet/ynab-csv/internal/container"
	"fjacquet/ynab-csv/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	Validate  bool
	LogLevel  string
	LogFormat string
	Delimiter string
	Locale    string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ynab-csv",
		Short: "A CLI tool to export budget category goals to an annualized CSV report.",
		Long: `ynab-csv reads the category list of a budget (CSV, YAML, JSON or a saved
budget page), parses each category's goal and writes a grouped CSV report with
the yearly contribution every goal requires, group totals and a grand total.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ynab-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			if err := ApplyFlagOverrides(cfg, cmd.Flags()); err != nil {
				return err
			}

			AppConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
			return nil
		},
		SilenceUsage: true,
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags. Later calls are no-ops.
func Init() {
	initOnce.Do(registerFlags)
}

func registerFlags() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate the input file before processing")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Delimiter, "csv-delimiter", "", "CSV delimiter of the exported report")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Locale, "locale", "", "Locale used to format amounts (e.g. en, de-CH)")
}

// ApplyFlagOverrides copies explicitly set flags over the loaded
// configuration and validates the result.
func ApplyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet) error {
	overrides := map[string]*string{
		"log-level":     &cfg.Log.Level,
		"log-format":    &cfg.Log.Format,
		"csv-delimiter": &cfg.CSV.Delimiter,
		"locale":        &cfg.Report.CurrencyLocale,
		"totals":        &cfg.Report.Totals,
		"now":           &cfg.Report.Now,
		"address":       &cfg.Server.Address,
	}
	for name, target := range overrides {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		*target = flag.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// NewContainer wires the application dependencies from AppConfig, logging
// through the command logger.
func NewContainer() (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainerWithLogger(AppConfig, logging.NewLogrusAdapterFromLogger(Log))
}
