// Package container provides dependency injection for the ynab-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"fjacquet/ynab-csv/internal/annualizer"
	"fjacquet/ynab-csv/internal/common"
	"fjacquet/ynab-csv/internal/config"
	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/exclusion"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/report"
	"fjacquet/ynab-csv/internal/source"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	filter    *exclusion.Filter
	formatter *currencyutils.Formatter
	totals    report.TotalsMode
	writer    common.WriterOptions
	// clock returns the reference time of a run; pinned when report.now is set.
	clock func() time.Time

	readers   map[source.Format]source.Reader
	generator *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(cfg, nil)
}

// NewContainerWithLogger is NewContainer with an externally built logger.
// A nil logger is built from the configuration.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	formatter, err := currencyutils.NewFormatter(cfg.Report.CurrencyLocale)
	if err != nil {
		return nil, err
	}
	totals, err := report.ParseTotalsMode(cfg.Report.Totals)
	if err != nil {
		return nil, err
	}

	clock := time.Now
	if cfg.Report.Now != "" {
		pinned, err := cfg.ReferenceTime()
		if err != nil {
			return nil, err
		}
		clock = func() time.Time { return pinned }
	}

	filter := exclusion.New(
		exclusion.WithExclusions(cfg.Report.Exclusions...),
		exclusion.WithRedaction(cfg.Report.RedactionMarker, cfg.Report.RedactionLabel),
	)

	writer := common.WriterOptions{
		Delimiter:      cfg.DelimiterRune(),
		IncludeHeaders: cfg.CSV.IncludeHeaders,
		QuoteAll:       cfg.CSV.QuoteAll,
	}

	readers := make(map[source.Format]source.Reader, len(source.Formats))
	for _, f := range source.Formats {
		r, err := source.NewReader(f, logger)
		if err != nil {
			return nil, err
		}
		readers[f] = r
	}

	c := &Container{
		logger:    logger,
		config:    cfg,
		filter:    filter,
		formatter: formatter,
		totals:    totals,
		writer:    writer,
		clock:     clock,
		readers:   readers,
	}
	c.generator = report.NewReportGenerator(c.NewBuilder, logger)

	logger.Info("Container initialized successfully",
		logging.F("readers_count", len(readers)),
		logging.F("totals_mode", string(totals)),
		logging.F("exclusions", filter.Exclusions()))

	return c, nil
}

// NewBuilder returns a report builder for one run, using the current
// reference time. It satisfies report.BuilderFactory.
func (c *Container) NewBuilder(logger logging.Logger) *report.Builder {
	if logger == nil {
		logger = c.logger
	}
	opts := report.Options{
		Totals:     c.totals,
		Preamble:   c.config.PreambleRows(),
		HeaderRows: c.writer.HeaderLines(),
	}
	return report.NewBuilder(opts, c.filter, annualizer.New(c.clock()), c.formatter, logger)
}

// GetReader returns the source reader for the given format.
func (c *Container) GetReader(f source.Format) (source.Reader, error) {
	r, ok := c.readers[f]
	if !ok {
		return nil, fmt.Errorf("unknown source format: %s", f)
	}
	return r, nil
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.ReportGenerator {
	return c.generator
}

// GetCalculator returns an annualizer set to the current reference time.
func (c *Container) GetCalculator() *annualizer.Calculator {
	return annualizer.New(c.clock())
}

// GetFormatter returns the amount formatter.
func (c *Container) GetFormatter() *currencyutils.Formatter {
	return c.formatter
}

// GetFilter returns the exclusion filter.
func (c *Container) GetFilter() *exclusion.Filter {
	return c.filter
}

// GetWriterOptions returns the CSV sink options.
func (c *Container) GetWriterOptions() common.WriterOptions {
	return c.writer
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
