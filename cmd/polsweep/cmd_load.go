package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/config"
	"github.com/opdyn/polsweep/internal/logging"
	"github.com/opdyn/polsweep/internal/pathutil"
	"github.com/opdyn/polsweep/internal/results"
	"github.com/opdyn/polsweep/internal/store"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [results-root]",
		Short: "Load, aggregate and classify a sweep's trial files",
		Long: `Scan a results directory tree, aggregate repetitions per parameter
combination, classify each condition against the configured thresholds,
and persist the result table to .polsweep/results.db.

The results root defaults to the configured results.root.

Examples:
  polsweep load ./results
  polsweep load --json ./results   # machine-readable summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			resultsRoot := cfg.Results.Root
			if len(args) == 1 {
				resultsRoot = args[0]
			}
			if resultsRoot == "" {
				return fmt.Errorf("no results root: pass one or set results.root in config")
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			decisions := logging.NewDecisionLogger(pathutil.Dir(root), cfg.Logging.Level)
			defer decisions.Close()

			scan, err := results.Scan(resultsRoot)
			if err != nil {
				return fmt.Errorf("scanning results: %w", err)
			}
			logger.Info("scanned results", "root", resultsRoot,
				"trials", len(scan.Trials), "load_errors", len(scan.Errors))
			for _, le := range scan.Errors {
				logger.Debug("skipped input", "file", le.File, "line", le.Line, "error", le.Error)
			}

			table, aggErrs := aggregate.Build(scan.Trials, cfg.Classifier)
			for _, err := range aggErrs {
				logger.Warn("aggregation error", "error", err)
			}
			logDecisions(decisions, table)

			rs, err := store.NewResultStore(root)
			if err != nil {
				return fmt.Errorf("opening result store: %w", err)
			}
			defer rs.Close()

			if err := rs.Save(context.Background(), table); err != nil {
				return fmt.Errorf("saving results: %w", err)
			}

			polar := len(table.Polarizing())
			summary := map[string]any{
				"trials":        len(scan.Trials),
				"conditions":    len(table.Records),
				"polarizing":    polar,
				"nonpolarizing": len(table.Records) - polar,
				"load_errors":   len(scan.Errors),
				"errors":        len(aggErrs),
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}
			fmt.Printf("Loaded %d trials into %d conditions (%d polarizing, %d nonpolarizing)\n",
				len(scan.Trials), len(table.Records), polar, len(table.Records)-polar)
			if len(scan.Errors) > 0 || len(aggErrs) > 0 {
				fmt.Printf("Skipped input: %d load errors, %d aggregation errors (see logs)\n",
					len(scan.Errors), len(aggErrs))
			}
			return nil
		},
	}
	return cmd
}

// logDecisions traces each condition's classification to the decision
// log. At trace level the full mean series is included.
func logDecisions(dl *logging.DecisionLogger, table *aggregate.Table) {
	if dl == nil {
		return
	}
	for _, r := range table.Records {
		event := map[string]any{
			"condition":  r.Key(),
			"reps":       r.Reps,
			"slope":      r.Fit.Slope,
			"delta":      r.Fit.Delta,
			"variance":   r.Fit.Variance,
			"polarizing": r.Polarizing,
		}
		if dl.Trace() {
			event["mean_series"] = r.MeanSeries
		}
		dl.Log(event)
	}
}
