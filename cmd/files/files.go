// Package files handles the uploaded-file manifest commands
package files

import (
	"fmt"

	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the files command
var Cmd = &cobra.Command{
	Use:   "files",
	Short: "List or remove imported statement files",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported statement files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return root.Render(cmd, report.FilesReport(c.GetLedger().Snapshot().Files))
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove FILE_ID",
	Short: "Remove an imported file and all of its transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		before, _ := c.GetLedger().Snapshot().File(args[0])
		if _, err := c.GetLedger().RemoveFile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s and its %d transactions\n", before.Name, before.Count)
		return nil
	},
}

func init() {
	Cmd.AddCommand(listCmd, removeCmd)
}
