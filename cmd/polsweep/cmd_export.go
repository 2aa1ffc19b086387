package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/store"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the result table as CSV or Arrow IPC",
		Long: `Export stored, classified conditions for downstream analysis.

CSV is the default and writes to stdout unless --out is given. The
arrow format writes an Arrow IPC file and requires --out.

Examples:
  polsweep export > results.csv
  polsweep export --format arrow --out results.arrow
  polsweep export --filter tactic=broadcast --out broadcast.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			filterArgs, _ := cmd.Flags().GetStringArray("filter")

			filters, err := parseFilters(filterArgs)
			if err != nil {
				return err
			}
			if format != "csv" && format != "arrow" {
				return fmt.Errorf("unknown format %q: want 'csv' or 'arrow'", format)
			}
			if format == "arrow" && out == "" {
				return fmt.Errorf("arrow export requires --out")
			}

			rs, err := store.NewResultStore(root)
			if err != nil {
				return fmt.Errorf("opening result store: %w", err)
			}
			defer rs.Close()

			table, err := rs.Load(context.Background(), filters)
			if err != nil {
				return fmt.Errorf("loading results: %w", err)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := writeExport(w, table, format); err != nil {
				return fmt.Errorf("exporting %s: %w", format, err)
			}
			if out != "" {
				fmt.Fprintf(os.Stderr, "Exported %d conditions to %s\n", len(table.Records), out)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "export format: csv or arrow")
	cmd.Flags().String("out", "", "output file (default stdout for csv)")
	cmd.Flags().StringArray("filter", nil, "parameter filter as field=value (repeatable)")
	return cmd
}

func writeExport(w io.Writer, table *aggregate.Table, format string) error {
	if format == "arrow" {
		return store.ExportArrow(w, table)
	}
	return store.ExportCSV(w, table)
}
