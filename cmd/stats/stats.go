// Package stats handles the aggregate report commands
package stats

import (
	"fmt"

	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/analytics"
	"fjacquet/budget-csv/internal/dateutils"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/report"

	"github.com/spf13/cobra"
)

var (
	month string
	limit int
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show monthly totals, insights and spending breakdowns",
}

// view builds a report from the selected transactions and the display currency.
type view func(txs []models.Transaction, currency string) *report.Report

func newViewCmd(use, short string, monthFilter bool, build view) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" && !dateutils.ValidMonth(month) {
				return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
			}
			c, err := root.GetContainer()
			if err != nil {
				return err
			}
			selected := ""
			if monthFilter {
				selected = month
			}
			txs := c.GetLedger().Snapshot().Filter(selected, "")
			return root.Render(cmd, build(txs, c.GetConfig().CSV.DefaultCurrency))
		},
	}
	if monthFilter {
		cmd.Flags().StringVarP(&month, "month", "m", "", "Only this month (YYYY-MM)")
	}
	return cmd
}

func init() {
	top := newViewCmd("top", "Most expensive merchants by total spending", true,
		func(txs []models.Transaction, currency string) *report.Report {
			return report.LabelReport("Top expenses", "text", analytics.TopExpenses(txs, limit), currency)
		})
	top.Flags().IntVarP(&limit, "limit", "n", 5, "Number of merchants to show (0 for all)")

	Cmd.AddCommand(
		newViewCmd("monthly", "Income and expenses per month", false,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.MonthlyReport(analytics.MonthlyStats(txs), currency)
			}),
		newViewCmd("insights", "Biggest deposit, biggest withdrawal and current balance", false,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.InsightsReport(analytics.ComputeInsights(txs), currency)
			}),
		newViewCmd("categories", "Expenses per category with their share", true,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.CategoryReport(analytics.CategoryBreakdown(txs), currency)
			}),
		top,
		newViewCmd("daily", "Expenses per day", true,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.LabelReport("Daily spending", "date", analytics.DailySpending(txs), currency)
			}),
		newViewCmd("balance", "Running balance per date", false,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.BalanceReport(analytics.BalanceTrend(txs), currency)
			}),
		newViewCmd("summary", "Overview of the latest month", false,
			func(txs []models.Transaction, currency string) *report.Report {
				return report.SummaryReport(analytics.CurrentMonthSummary(txs), currency)
			}),
	)
}
