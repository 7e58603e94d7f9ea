package main

import (
	"fmt"
	"os"

	"fjacquet/budget-csv/cmd/categorize"
	"fjacquet/budget-csv/cmd/export"
	"fjacquet/budget-csv/cmd/files"
	"fjacquet/budget-csv/cmd/importer"
	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/cmd/rules"
	"fjacquet/budget-csv/cmd/stats"
	"fjacquet/budget-csv/cmd/transactions"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(files.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
