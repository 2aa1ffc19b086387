package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/store"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report classified conditions from the result store",
		Long: `Query the stored result table and print classified conditions.

Filters narrow the report to matching parameter values, --label keeps
only polarizing or nonpolarizing conditions, and --by replaces the
listing with polarizing shares grouped by a parameter field.

Examples:
  polsweep report
  polsweep report --label polarizing --filter tactic=broadcast
  polsweep report --by epsilon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			by, _ := cmd.Flags().GetString("by")
			label, _ := cmd.Flags().GetString("label")
			top, _ := cmd.Flags().GetInt("top")
			filterArgs, _ := cmd.Flags().GetStringArray("filter")

			filters, err := parseFilters(filterArgs)
			if err != nil {
				return err
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

			if by != "" {
				return reportShares(table, by, jsonOut)
			}

			records, err := labelRecords(table, label)
			if err != nil {
				return err
			}
			if top > 0 && top < len(records) {
				records = records[:top]
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(records)
			}
			if len(records) == 0 {
				fmt.Println("No matching conditions. Run 'polsweep load' first.")
				return nil
			}
			fmt.Printf("%-60s %5s %9s %9s %9s %s\n",
				"CONDITION", "REPS", "SLOPE", "DELTA", "VAR", "LABEL")
			for _, r := range records {
				fmt.Printf("%-60s %5d %9.4f %9.4f %9.4f %s\n",
					r.Key(), r.Reps, r.Fit.Slope, r.Fit.Delta, r.Fit.Variance, labelOf(r))
			}
			return nil
		},
	}
	cmd.Flags().String("by", "", "group polarizing shares by a parameter field")
	cmd.Flags().String("label", "", "keep only 'polarizing' or 'nonpolarizing' conditions")
	cmd.Flags().Int("top", 0, "limit the listing to the first N conditions")
	cmd.Flags().StringArray("filter", nil, "parameter filter as field=value (repeatable)")
	return cmd
}

func reportShares(table *aggregate.Table, by string, jsonOut bool) error {
	shares, err := table.ShareBy(by)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(shares)
	}
	if len(shares) == 0 {
		fmt.Println("No matching conditions. Run 'polsweep load' first.")
		return nil
	}
	fmt.Printf("%-20s %10s %12s %8s\n", strings.ToUpper(by), "TOTAL", "POLARIZING", "SHARE")
	for _, s := range shares {
		fmt.Printf("%-20s %10d %12d %7.1f%%\n", s.Value, s.Total, s.Polarizing, s.Share*100)
	}
	return nil
}

func labelRecords(table *aggregate.Table, label string) ([]aggregate.Record, error) {
	switch label {
	case "":
		return table.Records, nil
	case "polarizing":
		return table.Polarizing(), nil
	case "nonpolarizing":
		return table.Nonpolarizing(), nil
	default:
		return nil, fmt.Errorf("unknown label %q: want 'polarizing' or 'nonpolarizing'", label)
	}
}

func labelOf(r aggregate.Record) string {
	if r.Polarizing {
		return "polarizing"
	}
	return "nonpolarizing"
}

// parseFilters turns repeated field=value flags into a filter map.
func parseFilters(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q: want field=value", arg)
		}
		filters[field] = value
	}
	return filters, nil
}
