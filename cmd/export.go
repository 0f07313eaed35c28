package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var exportToStorage bool

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the catalog as a CSV dataset",
	Long: `Export writes the whole books table as CSV, with one column per
declared field in column order.

Examples:
  # Write to a local file
  rowsync export books.csv

  # Write to stdout
  rowsync export -

  # Write into the configured bucket
  rowsync export books.csv --to-storage`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportToStorage, "to-storage", false, "Treat [file] as an object in the configured bucket")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, logg, svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	if exportToStorage {
		return svc.ExportToStorage(ctx, args[0])
	}

	if args[0] == "-" {
		return svc.Export(ctx, os.Stdout)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return svc.Export(ctx, f)
}
