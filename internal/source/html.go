package source

import (
	"io"
	"strings"

	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/parsererror"

	"golang.org/x/net/html"
)

// Class names and attributes found in a saved budget page.
const (
	classRow            = "budget-table-row"
	classMasterCategory = "is-master-category"
	classCellName       = "budget-table-cell-name"
	classTargetBehavior = "target-behavior"
	classTargetByDate   = "target-by-date"
	classBreakdownItem  = "target-breakdown-item"
	classBreakdownLabel = "target-breakdown-item-label"
	classBreakdownValue = "target-breakdown-item-value"

	attrTargetDetails  = "data-target-details"
	attrCurrentBalance = "data-current-balance"

	currentBalanceLabel = "Current Balance"
)

// HTMLReader reads a saved budget page. Rows carry the target text and the
// current balance either as data attributes or as an embedded target
// inspector.
type HTMLReader struct {
	baseReader
}

// NewHTMLReader returns an HTMLReader.
func NewHTMLReader(logger logging.Logger) *HTMLReader {
	return &HTMLReader{baseReader: newBaseReader(logger)}
}

// Read implements Reader.
func (h *HTMLReader) Read(r io.Reader) ([]models.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "saved budget page (HTML)",
			Msg:            "failed to parse HTML",
			Err:            err,
		}
	}

	var records []models.Record
	group := models.NoGroup
	inGroup := false
	for _, row := range findAll(doc, classRow) {
		name := rowName(row)
		if hasClass(row, classMasterCategory) {
			group, inGroup = name, true
			records = append(records, models.NewGroupHeader(group))
			continue
		}
		if !inGroup {
			h.logger.Debug("Skipping category row before any group",
				logging.F(logging.FieldCategory, name))
			continue
		}

		goal, balanceText := targetDetails(row)
		balance, err := currencyutils.ParseAmount(balanceText)
		if err != nil {
			return nil, err
		}
		records = append(records, models.NewCategoryRecord(group, name, goal, balance))
	}

	h.logger.Info("Read category list",
		logging.F(logging.FieldFormat, string(HTML)),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// rowName prefers the button inside the name cell, like the live page.
func rowName(row *html.Node) string {
	cell := findFirst(row, classCellName)
	if cell == nil {
		return models.NotAvailable
	}
	if button := findElement(cell, "button"); button != nil {
		cell = button
	}
	name := strings.TrimSpace(textContent(cell))
	if name == "" {
		return models.NotAvailable
	}
	return name
}

// targetDetails returns the goal sentence and the raw balance of a row.
func targetDetails(row *html.Node) (goal, balance string) {
	goal, hasGoal := attr(row, attrTargetDetails)
	balance, hasBalance := attr(row, attrCurrentBalance)
	if hasGoal && hasBalance {
		return strings.TrimSpace(goal), strings.TrimSpace(balance)
	}

	if !hasGoal {
		behavior := strings.TrimSpace(textOf(findFirst(row, classTargetBehavior)))
		byDate := strings.TrimSpace(textOf(findFirst(row, classTargetByDate)))
		goal = strings.TrimSpace(behavior + " " + byDate)
	}
	if !hasBalance {
		for _, item := range findAll(row, classBreakdownItem) {
			if strings.Contains(textOf(findFirst(item, classBreakdownLabel)), currentBalanceLabel) {
				balance = textOf(findFirst(item, classBreakdownValue))
				break
			}
		}
	}
	return strings.TrimSpace(goal), strings.TrimSpace(balance)
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// findAll returns the descendants of n carrying class, in document order.
// Matches are not searched for nested matches.
func findAll(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if hasClass(c, class) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func findFirst(n *html.Node, class string) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasClass(c, class) {
			return c
		}
		if found := findFirst(c, class); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	return textContent(n)
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
