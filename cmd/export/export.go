// Package export handles the report export command
package export

import (
	"fjacquet/ynab-csv/cmd/common"
	"fjacquet/ynab-csv/cmd/root"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/source"

	"github.com/spf13/cobra"
)

var (
	format       string
	outputFormat string
	totals       string
	now          string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export category goals to an annualized CSV report",
	Long: `Read a category list and write the grouped goal report.

The input format is taken from --format or from the input file extension
(csv, yaml, yml, json, html). Without --output the report is written to
ynab_categories_export_<timestamp>.csv in the current directory.`,
	Example: `  ynab-csv export -i budget.yaml -o report.csv
  ynab-csv export -i budget.html --totals formula --now 2025-01`,
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (csv, yaml, json, html)")
	Cmd.Flags().StringVar(&outputFormat, "output-format", "csv", "Output format (csv or json)")
	Cmd.Flags().StringVar(&totals, "totals", "", "Totals mode (sum or formula)")
	Cmd.Flags().StringVar(&now, "now", "", "Reference month for due dates (YYYY-MM, YYYY-MM-DD or RFC3339)")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Export command called")
	root.Log.Infof("Input file: %s", root.SharedFlags.Input)

	var inputFormat source.Format
	if format != "" {
		f, err := source.ParseFormat(format)
		if err != nil {
			return err
		}
		inputFormat = f
	}

	c, err := root.NewContainer()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.Warnf("Failed to close container: %v", err)
		}
	}()

	output, err := common.ProcessFile(cmd.Context(), c, common.ProcessOptions{
		InputFile:    root.SharedFlags.Input,
		OutputFile:   root.SharedFlags.Output,
		Format:       inputFormat,
		OutputFormat: outputFormat,
		Validate:     root.SharedFlags.Validate,
	}, c.GetLogger())
	if err != nil {
		c.GetLogger().WithError(err).Error("Export failed")
		return err
	}

	c.GetLogger().Info("Report written", logging.F(logging.FieldOutputFile, output))
	return nil
}
