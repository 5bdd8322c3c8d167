package common_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/ynab-csv/cmd/common"
	"fjacquet/ynab-csv/internal/annualizer"
	csvsink "fjacquet/ynab-csv/internal/common"
	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/exclusion"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/report"
	"fjacquet/ynab-csv/internal/source"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReader implements source.Reader for testing
type MockReader struct {
	mock.Mock
}

func (m *MockReader) Read(r io.Reader) ([]models.Record, error) {
	args := m.Called(r)
	records, _ := args.Get(0).([]models.Record)
	return records, args.Error(1)
}

// MockDependencies implements common.Dependencies for testing
type MockDependencies struct {
	mock.Mock
	generator *report.ReportGenerator
	writer    csvsink.WriterOptions
}

func (m *MockDependencies) GetReader(f source.Format) (source.Reader, error) {
	args := m.Called(f)
	r, _ := args.Get(0).(source.Reader)
	return r, args.Error(1)
}

func (m *MockDependencies) GetGenerator() *report.ReportGenerator {
	return m.generator
}

func (m *MockDependencies) GetWriterOptions() csvsink.WriterOptions {
	return m.writer
}

var fixedNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func newDeps() *MockDependencies {
	factory := func(logger logging.Logger) *report.Builder {
		return report.NewBuilder(report.Options{HeaderRows: 1}, exclusion.New(), annualizer.New(fixedNow),
			currencyutils.MustFormatter(currencyutils.DefaultLocale), logger)
	}
	return &MockDependencies{
		generator: report.NewReportGenerator(factory, logging.NewDiscardLogger()),
		writer:    csvsink.DefaultWriterOptions(),
	}
}

func sampleRecords() []models.Record {
	return []models.Record{
		models.NewGroupHeader("Bills"),
		models.NewCategoryRecord("Bills", "Rent", "Spend 100.00 Each Month", decimal.Zero),
	}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestProcessFile_CSV(t *testing.T) {
	input := writeInput(t, "budget.yaml", "groups: []")
	output := filepath.Join(t.TempDir(), "out", "report.csv")

	reader := &MockReader{}
	reader.On("Read", mock.Anything).Return(sampleRecords(), nil)
	deps := newDeps()
	deps.On("GetReader", source.YAML).Return(reader, nil)

	logger := logging.NewMockLogger()
	written, err := common.ProcessFile(context.Background(), deps, common.ProcessOptions{
		InputFile:  input,
		OutputFile: output,
		Validate:   true,
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, output, written)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Bills","Rent","Spend","100.00","Each Month","N/A","1,200.00"`)
	assert.True(t, logger.HasEntry("INFO", "Export completed successfully!"))

	reader.AssertExpectations(t)
	deps.AssertExpectations(t)
}

func TestProcessFile_JSONWithDefaultName(t *testing.T) {
	chdir(t, t.TempDir())
	input := writeInput(t, "budget.data", "ignored")

	reader := &MockReader{}
	reader.On("Read", mock.Anything).Return(sampleRecords(), nil)
	deps := newDeps()
	deps.On("GetReader", source.CSV).Return(reader, nil)

	written, err := common.ProcessFile(context.Background(), deps, common.ProcessOptions{
		InputFile:    input,
		Format:       source.CSV,
		OutputFormat: "json",
		Now:          func() time.Time { return fixedNow },
	}, logging.NewDiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, "ynab_categories_export_2025-01-15T10-00-00-000Z.json", written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1200.00", decoded["grand_total"])
}

func TestProcessFile_Errors(t *testing.T) {
	t.Run("invalid output format", func(t *testing.T) {
		_, err := common.ProcessFile(context.Background(), newDeps(), common.ProcessOptions{
			InputFile:    "x.csv",
			OutputFormat: "xml",
		}, logging.NewDiscardLogger())
		assert.ErrorContains(t, err, "unsupported output format")
	})

	t.Run("validation fails on missing input", func(t *testing.T) {
		_, err := common.ProcessFile(context.Background(), newDeps(), common.ProcessOptions{
			InputFile: filepath.Join(t.TempDir(), "missing.csv"),
			Validate:  true,
		}, logging.NewDiscardLogger())
		assert.ErrorContains(t, err, "path does not exist")
	})

	t.Run("undetectable format", func(t *testing.T) {
		input := writeInput(t, "budget", "data")
		_, err := common.ProcessFile(context.Background(), newDeps(), common.ProcessOptions{
			InputFile: input,
		}, logging.NewDiscardLogger())
		assert.ErrorContains(t, err, "cannot detect source format")
	})

	t.Run("reader failure", func(t *testing.T) {
		input := writeInput(t, "budget.csv", "data")
		reader := &MockReader{}
		reader.On("Read", mock.Anything).Return(nil, errors.New("boom"))
		deps := newDeps()
		deps.On("GetReader", source.CSV).Return(reader, nil)

		_, err := common.ProcessFile(context.Background(), deps, common.ProcessOptions{
			InputFile: input,
		}, logging.NewDiscardLogger())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "boom"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		input := writeInput(t, "budget.csv", "data")
		reader := &MockReader{}
		reader.On("Read", mock.Anything).Return(sampleRecords(), nil)
		deps := newDeps()
		deps.On("GetReader", source.CSV).Return(reader, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := common.ProcessFile(ctx, deps, common.ProcessOptions{
			InputFile:  input,
			OutputFile: filepath.Join(t.TempDir(), "out.csv"),
		}, logging.NewDiscardLogger())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
