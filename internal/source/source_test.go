package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"YAML", YAML, false},
		{"yml", YAML, false},
		{"json", JSON, false},
		{"htm", HTML, false},
		{" html ", HTML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("/tmp/budget.HTML")
	require.NoError(t, err)
	assert.Equal(t, HTML, f)

	_, err = DetectFormat("/tmp/budget")
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	for _, f := range Formats {
		r, err := NewReader(f, nil)
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}
	_, err := NewReader("pdf", nil)
	assert.Error(t, err)
}

func TestReadFile_DetectsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.csv")
	content := "Group,Category,Goal,Balance\nBills,,,\nBills,Rent,Spend 100.00 Each Month,25.00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	records, err := ReadFile(path, "", nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsGroupHeader)
	assert.Equal(t, "Rent", records[1].Category)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"), "", nil)
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	logger := logging.NewMockLogger()
	records := []models.Record{
		models.NewGroupHeader("Bills"),
		models.NewCategoryRecord("Bills", "Rent", "Spend 100.00 Each Month", decimal.Zero),
		models.NewCategoryRecord("Bills", "Rent", "Spend 999.00 Each Month", decimal.Zero),
		models.NewCategoryRecord("Bills", "Water", "", decimal.Zero),
		models.NewGroupHeader("Car"),
		models.NewCategoryRecord("Car", "Rent", "", decimal.Zero),
	}

	out, dropped := Dedupe(records, logger)

	assert.Equal(t, 1, dropped)
	require.Len(t, out, 5)
	assert.Equal(t, "Spend 100.00 Each Month", out[1].Goal, "first observation wins")
	assert.Equal(t, "Car", out[4].Group)
	assert.True(t, logger.HasEntry("WARN", "Dropping repeated category observation"))
}

func TestCSVReader_Read(t *testing.T) {
	input := strings.Join([]string{
		"Group,Category,Goal,Balance",
		"Bills,,,",
		"Bills,Rent,\"Spend 1,000.00 Each Month\",\"$1,250.50\"",
		"Bills,Water,,",
		"Savings,Vacation,Have a Balance of 1200.00 By June 2026,300",
	}, "\n")

	records, err := NewCSVReader(',', nil).Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, models.NewGroupHeader("Bills"), records[0])
	assert.Equal(t, "Rent", records[1].Category)
	assert.Equal(t, "Spend 1,000.00 Each Month", records[1].Goal)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(records[1].Balance))
	assert.Equal(t, "Water", records[2].Category)
	assert.Equal(t, models.NewGroupHeader("Savings"), records[3], "header synthesized on group change")
	assert.True(t, decimal.NewFromInt(300).Equal(records[4].Balance))
	assert.Equal(t, "Have a Balance of 1200.00 By June 2026", records[4].Goal)
}

func TestCSVReader_QuotedGoalAndDelimiter(t *testing.T) {
	input := "Group;Category;Goal;Balance\nBills;Rent;\"Spend 1,000.00 Each Month\";1'250.50\n"

	records, err := NewCSVReader(';', nil).Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.True(t, records[0].IsGroupHeader)
	assert.Equal(t, "Spend 1,000.00 Each Month", records[1].Goal)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(records[1].Balance))
}

func TestCSVReader_BadBalance(t *testing.T) {
	input := "Group,Category,Goal,Balance\nBills,Rent,,abc\n"
	_, err := NewCSVReader(',', nil).Read(strings.NewReader(input))
	require.Error(t, err)

	var parseErr *parsererror.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCSVReader_CategoriesWithoutGroup(t *testing.T) {
	input := strings.Join([]string{
		"Group,Category,Goal,Balance",
		",Orphan,Spend 1.00 Each Month,0",
		"N/A,Ghost,Spend 2.00 Each Month,0",
		"Bills,,,",
		"Bills,Rent,Spend 100.00 Each Month,0",
		",Stray,Spend 3.00 Each Month,0",
		"Bills,Water,,",
	}, "\n")

	records, err := NewCSVReader(',', nil).Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 6)
	assert.Equal(t, models.NoGroup, records[0].Group)
	assert.Equal(t, "Orphan", records[0].Category)
	assert.False(t, records[0].IsGroupHeader)
	assert.Equal(t, models.NoGroup, records[1].Group)
	assert.False(t, records[1].IsGroupHeader)
	assert.Equal(t, models.NewGroupHeader("Bills"), records[2])
	assert.Equal(t, models.NoGroup, records[4].Group)
	assert.Equal(t, "Bills", records[5].Group)

	for _, rec := range records {
		if rec.IsGroupHeader {
			assert.Equal(t, "Bills", rec.Group, "no header for an absent group")
		}
	}
}

func TestYAMLReader_Read(t *testing.T) {
	input := `
groups:
  - name: Bills
    categories:
      - name: Rent
        goal: Spend 100.00 Each Month
        balance: 12.5
      - name: Water
  - name: Savings
    categories:
      - name: Car
        goal: Have a Balance of 5,000.00 By March 2026
        balance: "1,000.00"
`
	records, err := NewYAMLReader(nil).Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, models.NewGroupHeader("Bills"), records[0])
	assert.True(t, decimal.RequireFromString("12.5").Equal(records[1].Balance))
	assert.True(t, records[2].Balance.IsZero())
	assert.Equal(t, "Savings", records[4].Group)
	assert.True(t, decimal.NewFromInt(1000).Equal(records[4].Balance))
}

func TestYAMLReader_UnnamedGroup(t *testing.T) {
	input := `
groups:
  - categories:
      - name: Orphan
        goal: Spend 1.00 Each Month
  - name: Bills
    categories:
      - name: Rent
`
	records, err := NewYAMLReader(nil).Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.False(t, records[0].IsGroupHeader)
	assert.Equal(t, models.NoGroup, records[0].Group)
	assert.Equal(t, models.NewGroupHeader("Bills"), records[1])
}

func TestYAMLReader_JSON(t *testing.T) {
	input := `{"groups": [{"name": "Bills", "categories": [{"name": "Rent", "goal": "Spend 100.00 Each Month", "balance": 0}]}]}`

	records, err := NewYAMLReader(nil).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Spend 100.00 Each Month", records[1].Goal)
}

func TestYAMLReader_Empty(t *testing.T) {
	records, err := NewYAMLReader(nil).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestYAMLReader_Invalid(t *testing.T) {
	_, err := NewYAMLReader(nil).Read(strings.NewReader("groups: [unterminated"))
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}

const budgetPage = `<!DOCTYPE html>
<html><body>
<div class="budget-table">
  <div class="budget-table-row">
    <div class="budget-table-cell-name"><button>Orphan</button></div>
  </div>
  <div class="budget-table-row is-master-category">
    <div class="budget-table-cell-name"><button> Bills </button></div>
  </div>
  <div class="budget-table-row is-checked" data-target-details="Spend 100.00 Each Month" data-current-balance="$1,234.50">
    <div class="budget-table-cell-name"><button>Rent</button></div>
  </div>
  <div class="budget-table-row">
    <div class="budget-table-cell-name"><button>Car Fund</button></div>
    <div class="target-inspector">
      <div class="target-behavior">Have a Balance of 5,000.00</div>
      <div class="target-by-date">By March 2026</div>
      <div class="target-breakdown-item">
        <div class="target-breakdown-item-label">Funded</div>
        <div class="target-breakdown-item-value"><span>9.99</span></div>
      </div>
      <div class="target-breakdown-item">
        <div class="target-breakdown-item-label">Current Balance</div>
        <div class="target-breakdown-item-value"><span class="user-data currency tabular-nums">1,000.00</span></div>
      </div>
    </div>
  </div>
  <div class="budget-table-row">
    <div class="budget-table-cell-name"><button>Fun Money</button></div>
  </div>
</div>
</body></html>`

func TestHTMLReader_Read(t *testing.T) {
	records, err := NewHTMLReader(nil).Read(strings.NewReader(budgetPage))
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, models.NewGroupHeader("Bills"), records[0])

	rent := records[1]
	assert.Equal(t, "Rent", rent.Category)
	assert.Equal(t, "Spend 100.00 Each Month", rent.Goal)
	assert.True(t, decimal.RequireFromString("1234.50").Equal(rent.Balance))

	car := records[2]
	assert.Equal(t, "Car Fund", car.Category)
	assert.Equal(t, "Have a Balance of 5,000.00 By March 2026", car.Goal)
	assert.True(t, decimal.NewFromInt(1000).Equal(car.Balance))

	fun := records[3]
	assert.Equal(t, "Bills", fun.Group)
	assert.Empty(t, fun.Goal)
	assert.True(t, fun.Balance.IsZero())
}
