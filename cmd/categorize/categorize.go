// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/currencyutils"

	"github.com/spf13/cobra"
)

var (
	text   string
	amount string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction text with your rules and the keyword dictionary",
	Long: `Categorize a transaction text the way imports do: a matching user rule wins,
otherwise positive amounts are Income and the keyword dictionary decides the rest.`,
	Args: cobra.NoArgs,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&text, "text", "t", "", "Transaction text to categorize")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "-1", "Transaction amount, e.g. \"6500,00-\" or -49.95")
	_ = Cmd.MarkFlagRequired("text")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	value, err := currencyutils.ParseAmount(amount)
	if err != nil {
		return err
	}

	rules := c.GetRuleStore()
	category := rules.Classify(text, value)

	reason := "no keyword matched"
	if rule, ok := rules.Match(text); ok {
		reason = fmt.Sprintf("rule %q", rule.TextPattern)
	} else if value.IsPositive() {
		reason = "positive amount"
	} else if _, keyword, ok := c.GetKeywordClassifier().Match(text); ok {
		reason = fmt.Sprintf("keyword %q", keyword)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Category: %s (%s)\n", category, reason)
	return nil
}
