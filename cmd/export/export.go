// Package export handles the export command
package export

import (
	"fmt"

	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/dateutils"

	"github.com/spf13/cobra"
)

var (
	outputFile string
	format     string
	month      string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions to CSV, XLSX or JSON",
	Long: `Export the ledger transactions to a file. The format is taken from --format,
then from the export.format setting, then from the output file extension.`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (required)")
	Cmd.Flags().StringVar(&format, "format", "", "Output format: csv, xlsx or json")
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Only export this month (YYYY-MM)")
	_ = Cmd.MarkFlagRequired("output")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	if month != "" && !dateutils.ValidMonth(month) {
		return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	selected := format
	if selected == "" {
		selected = c.GetConfig().Export.Format
	}

	txs := c.GetLedger().Snapshot().Filter(month, "")
	if err := c.GetExporter().WriteFile(outputFile, txs, selected); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txs), outputFile)
	return nil
}
