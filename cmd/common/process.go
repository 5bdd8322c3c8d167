// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	csvsink "fjacquet/ynab-csv/internal/common"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/report"
	"fjacquet/ynab-csv/internal/source"
	"fjacquet/ynab-csv/internal/validation"
)

// Dependencies is what ProcessFile needs from the application container.
type Dependencies interface {
	GetReader(f source.Format) (source.Reader, error)
	GetGenerator() *report.ReportGenerator
	GetWriterOptions() csvsink.WriterOptions
}

// ProcessOptions describes one export run.
type ProcessOptions struct {
	InputFile  string
	OutputFile string
	// Format of the input; detected from the file extension when empty.
	Format source.Format
	// OutputFormat is validation.OutputCSV or validation.OutputJSON.
	OutputFormat string
	Validate     bool
	Now          func() time.Time
}

// ProcessFile reads the input file, generates the report and writes it.
// It returns the path of the written file.
func ProcessFile(ctx context.Context, deps Dependencies, opts ProcessOptions, log logging.Logger) (string, error) {
	if opts.OutputFormat == "" {
		opts.OutputFormat = validation.OutputCSV
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := validation.IsValidOutputFormat(opts.OutputFormat); err != nil {
		return "", err
	}

	if opts.Validate {
		log.Info("Validating input file...")
		if err := validation.IsValidInputFile(opts.InputFile); err != nil {
			return "", err
		}
		log.Info("Validation successful.")
	}

	format := opts.Format
	if format == "" {
		detected, err := source.DetectFormat(opts.InputFile)
		if err != nil {
			return "", err
		}
		format = detected
	}
	reader, err := deps.GetReader(format)
	if err != nil {
		return "", err
	}

	records, err := readRecords(reader, opts.InputFile, log)
	if err != nil {
		return "", err
	}

	generator := deps.GetGenerator()
	rep, err := generator.Generate(ctx, records)
	if err != nil {
		return "", fmt.Errorf("error generating report: %w", err)
	}

	output := opts.OutputFile
	if output == "" {
		output = csvsink.DefaultOutputFilename(opts.Now())
		if opts.OutputFormat == validation.OutputJSON {
			output = strings.TrimSuffix(output, ".csv") + ".json"
		}
	}
	if err := validation.IsValidOutputPath(output); err != nil {
		return "", err
	}

	switch opts.OutputFormat {
	case validation.OutputJSON:
		data, err := generator.GenerateJSON(rep)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(filepath.Dir(output), models.PermissionDirectory); err != nil {
			return "", fmt.Errorf("error creating directory: %w", err)
		}
		if err := os.WriteFile(output, data, models.PermissionReportFile); err != nil {
			return "", fmt.Errorf("error writing JSON report: %w", err)
		}
	default:
		if err := csvsink.WriteReportToCSV(rep.Rows, output, deps.GetWriterOptions(), log); err != nil {
			return "", err
		}
	}

	log.Info("Export completed successfully!",
		logging.F(logging.FieldOutputFile, output),
		logging.F("groups", len(rep.GroupTotals)),
		logging.F("grand_total", rep.GrandTotal.StringFixed(2)))
	return output, nil
}

func readRecords(reader source.Reader, path string, log logging.Logger) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close input file")
		}
	}()

	records, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return records, nil
}
