// Package rules handles the user category rule commands
package rules

import (
	"fmt"

	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage category rules",
	Long: `Manage category rules. A rule maps a text pattern to a category; any transaction
whose text contains the pattern (case-insensitive) gets that category.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List category rules in match order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return root.Render(cmd, report.RulesReport(c.GetRuleStore().Rules()))
	},
}

var addCmd = &cobra.Command{
	Use:   "add PATTERN CATEGORY",
	Short: "Add or replace the rule for a text pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rule, err := c.GetRuleStore().AddRule(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved rule: %q -> %s\n", rule.TextPattern, rule.Category)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove PATTERN",
	Short: "Remove the rule for a text pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		removed, err := c.GetRuleStore().RemoveRule(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no rule for pattern %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed rule %q\n", args[0])
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd, addCmd, removeCmd)
}
