// Package importer handles the import command
package importer

import (
	"fmt"

	"fjacquet/budget-csv/cmd/common"
	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/internal/ingest"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	inputDir  string
	label     string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import bank statement CSV files into the ledger",
	Long: `Import a bank statement CSV file (or every .csv file of a directory) into the ledger.
Each row is normalized and categorized with your rules and the keyword dictionary.`,
	Args: cobra.NoArgs,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement CSV file to import")
	Cmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory whose .csv files are imported")
	Cmd.Flags().StringVarP(&label, "label", "l", "", "Display name of the imported file (default: file name)")
	Cmd.MarkFlagsOneRequired("input", "dir")
	Cmd.MarkFlagsMutuallyExclusive("input", "dir")
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	var results []ingest.Result
	if inputDir != "" {
		results, err = common.ImportDirectory(cmd.Context(), c, inputDir)
	} else {
		var result ingest.Result
		result, err = common.ImportFile(cmd.Context(), c, inputFile, label)
		if err == nil {
			results = append(results, result)
		}
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "Imported %d transactions from %s (file id %s)\n", r.File.Count, r.File.Name, r.File.ID)
	}
	return err
}
