// Package transactions handles the transaction listing and re-categorization commands
package transactions

import (
	"fmt"

	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/dateutils"
	"fjacquet/budget-csv/internal/report"

	"github.com/spf13/cobra"
)

var (
	month  string
	fileID string
	learn  string
)

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List transactions or change their category",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, optionally for one month or one imported file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if month != "" && !dateutils.ValidMonth(month) {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
		}
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return root.Render(cmd, report.TransactionsReport(c.GetLedger().Snapshot().Filter(month, fileID)))
	},
}

var setCategoryCmd = &cobra.Command{
	Use:   "set-category TRANSACTION_ID CATEGORY",
	Short: "Change the category of one transaction",
	Long: `Change the category of one transaction. With --learn PATTERN a rule is also saved,
so future imports whose text contains PATTERN get the same category.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if _, err := common.SetCategory(cmd.Context(), c, args[0], args[1], learn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Transaction %s categorized as %s\n", args[0], args[1])
		if learn != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved rule: %q -> %s\n", learn, args[1])
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&month, "month", "m", "", "Only transactions of this month (YYYY-MM)")
	listCmd.Flags().StringVar(&fileID, "file", "", "Only transactions imported from this file id")
	setCategoryCmd.Flags().StringVar(&learn, "learn", "", "Also save a rule for this text pattern")
	Cmd.AddCommand(listCmd, setCategoryCmd)
}
