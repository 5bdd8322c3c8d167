package root_test

import (
	"testing"

	"fjacquet/ynab-csv/cmd/root"
	"fjacquet/ynab-csv/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ynab-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "annualized CSV report")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init() // idempotent

	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"validate", "v"},
		{"log-level", ""},
		{"log-format", ""},
		{"csv-delimiter", ""},
		{"locale", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("csv-delimiter", "", "")
	flags.String("totals", "", "")
	flags.String("now", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "debug", "--totals", "formula", "--now", "2025-02"}))

	cfg := config.DefaultConfig()
	require.NoError(t, root.ApplyFlagOverrides(cfg, flags))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "formula", cfg.Report.Totals)
	assert.Equal(t, "2025-02", cfg.Report.Now)
	assert.Equal(t, ",", cfg.CSV.Delimiter, "unset flags keep the configured value")
}

func TestApplyFlagOverrides_Invalid(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("totals", "", "")
	require.NoError(t, flags.Parse([]string{"--totals", "mean"}))

	err := root.ApplyFlagOverrides(config.DefaultConfig(), flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNewContainer_RequiresConfig(t *testing.T) {
	saved := root.AppConfig
	root.AppConfig = nil
	defer func() { root.AppConfig = saved }()

	_, err := root.NewContainer()
	assert.Error(t, err)
}
