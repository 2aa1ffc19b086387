package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/config"
	"github.com/opdyn/polsweep/internal/pathutil"
	"github.com/opdyn/polsweep/internal/plot"
	"github.com/opdyn/polsweep/internal/store"
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render PNG charts from the result table",
		Long: `Render charts from stored conditions into the plot directory.

With --condition, plot that condition's mean polarization series with
its fitted trend line. With --by, plot polarizing shares as a bar
chart grouped by a parameter field. Without either, plot every stored
condition's trend.

Examples:
  polsweep plot --condition "translate-1,tactic-broadcast,media-uniform,citizen-normal,epsilon-1,graph-ws-0.5"
  polsweep plot --by tactic
  polsweep plot --filter epsilon=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			condition, _ := cmd.Flags().GetString("condition")
			by, _ := cmd.Flags().GetString("by")
			filterArgs, _ := cmd.Flags().GetStringArray("filter")

			if condition != "" && by != "" {
				return fmt.Errorf("--condition and --by are mutually exclusive")
			}

			filters, err := parseFilters(filterArgs)
			if err != nil {
				return err
			}

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			plotDir := cfg.Plot.Dir
			if plotDir == "" {
				plotDir = pathutil.PlotsDir(root)
			}
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return fmt.Errorf("creating plot dir: %w", err)
			}
			opts := plot.Options{Width: cfg.Plot.Width, Height: cfg.Plot.Height}

			rs, err := store.NewResultStore(root)
			if err != nil {
				return fmt.Errorf("opening result store: %w", err)
			}
			defer rs.Close()

			table, err := rs.Load(context.Background(), filters)
			if err != nil {
				return fmt.Errorf("loading results: %w", err)
			}

			if by != "" {
				shares, err := table.ShareBy(by)
				if err != nil {
					return err
				}
				path := filepath.Join(plotDir, "share-by-"+by+".png")
				if err := renderTo(path, func(f *os.File) error {
					return plot.ShareChart(f, by, shares, opts)
				}); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", path)
				return nil
			}

			records := table.Records
			if condition != "" {
				rec, ok := table.Lookup(condition)
				if !ok {
					return fmt.Errorf("no stored condition %q", condition)
				}
				records = []aggregate.Record{rec}
			}
			if len(records) == 0 {
				fmt.Println("No matching conditions. Run 'polsweep load' first.")
				return nil
			}
			for _, rec := range records {
				path := filepath.Join(plotDir, plotFileName(rec.Key()))
				if err := renderTo(path, func(f *os.File) error {
					return plot.TrendChart(f, rec, opts)
				}); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().String("condition", "", "plot a single condition by its key")
	cmd.Flags().String("by", "", "plot polarizing shares grouped by a parameter field")
	cmd.Flags().StringArray("filter", nil, "parameter filter as field=value (repeatable)")
	return cmd
}

func renderTo(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

// plotFileName maps a condition key to a filesystem-safe PNG name.
func plotFileName(key string) string {
	safe := strings.NewReplacer(",", "_", "/", "-").Replace(key)
	return safe + ".png"
}
