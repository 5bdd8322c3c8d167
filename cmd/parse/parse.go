// Package parse handles the goal parsing command
package parse

import (
	"fmt"
	"strings"

	"fjacquet/ynab-csv/cmd/root"
	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/goalparser"

	"github.com/spf13/cobra"
)

var (
	balance string
	now     string
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse <goal text>",
	Short: "Parse a goal sentence and show its annual total",
	Long: `Parse one goal sentence as shown in the target inspector and print the
recognized target type, amount, frequency, due date and the yearly
contribution it requires.`,
	Example: `  ynab-csv parse "Spend 250.00 Each Month"
  ynab-csv parse "Have a Balance of 5,000.00 By March 2026" --balance 1200`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVar(&balance, "balance", "", "Current balance of the category")
	Cmd.Flags().StringVar(&now, "now", "", "Reference month for due dates (YYYY-MM, YYYY-MM-DD or RFC3339)")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	current, err := currencyutils.ParseAmount(balance)
	if err != nil {
		return err
	}

	c, err := root.NewContainer()
	if err != nil {
		return err
	}

	result := goalparser.Match(text)
	goal := result.Descriptor
	annual := c.GetCalculator().Annualize(goal, current)
	formatter := c.GetFormatter()

	amount := "N/A"
	if goal.IsKnown() {
		amount = formatter.Format(goal.Amount.Decimal)
	}
	total := "N/A"
	if annual.Valid {
		total = formatter.Format(annual.Decimal)
	}

	grammar := result.Grammar.String()
	if !result.Matched() {
		grammar += " (goal text not recognized)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Grammar:          %s\n", grammar)
	fmt.Fprintf(out, "Target Type:      %s\n", goal.TargetType)
	fmt.Fprintf(out, "Target Amount:    %s\n", amount)
	fmt.Fprintf(out, "Target Frequency: %s\n", goal.Frequency)
	fmt.Fprintf(out, "Target Due Date:  %s\n", goal.DueDate)
	fmt.Fprintf(out, "Annual Total:     %s\n", total)
	return nil
}
