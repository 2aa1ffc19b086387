package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/opdyn/polsweep/internal/trend"
)

// handleQuery returns aggregated records, filtered by parameter fields
// and optionally by label.
func (s *Server) handleQuery(ctx context.Context, req *sdk.CallToolRequest, args QueryInput) (*sdk.CallToolResult, QueryOutput, error) {
	table, err := s.store.Load(ctx, args.Filters)
	if err != nil {
		return nil, QueryOutput{}, fmt.Errorf("loading records: %w", err)
	}

	records := table.Records
	switch args.Label {
	case "":
		// all records
	case "polarizing":
		records = table.Polarizing()
	case "nonpolarizing":
		records = table.Nonpolarizing()
	default:
		return nil, QueryOutput{}, fmt.Errorf("unknown label %q (want polarizing or nonpolarizing)", args.Label)
	}

	out := QueryOutput{Count: len(records)}
	for _, r := range records {
		out.Records = append(out.Records, RecordSummary{
			Key:        r.Key(),
			Reps:       r.Reps,
			Fit:        r.Fit,
			Polarizing: r.Polarizing,
		})
	}
	return nil, out, nil
}

// handleSummary reports the polarizing/nonpolarizing counts, optionally
// broken down by a parameter field.
func (s *Server) handleSummary(ctx context.Context, req *sdk.CallToolRequest, args SummaryInput) (*sdk.CallToolResult, SummaryOutput, error) {
	table, err := s.store.Load(ctx, nil)
	if err != nil {
		return nil, SummaryOutput{}, fmt.Errorf("loading records: %w", err)
	}

	out := SummaryOutput{
		Total:         len(table.Records),
		Polarizing:    len(table.Polarizing()),
		Nonpolarizing: len(table.Nonpolarizing()),
	}

	if args.By != "" {
		shares, err := table.ShareBy(args.By)
		if err != nil {
			return nil, SummaryOutput{}, err
		}
		for _, sh := range shares {
			out.Shares = append(out.Shares, ShareRow{
				Value:      sh.Value,
				Total:      sh.Total,
				Polarizing: sh.Polarizing,
				Share:      sh.Share,
			})
		}
	}
	return nil, out, nil
}

// handleClassify fits and labels an ad-hoc series with the configured
// thresholds.
func (s *Server) handleClassify(ctx context.Context, req *sdk.CallToolRequest, args ClassifyInput) (*sdk.CallToolResult, ClassifyOutput, error) {
	fit, err := trend.FitSeries(args.Series)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}
	return nil, ClassifyOutput{
		Fit:        fit,
		Thresholds: s.thresholds,
		Polarizing: s.thresholds.Polarizing(fit),
	}, nil
}
