package mcp

import (
	"github.com/opdyn/polsweep/internal/trend"
)

// QueryInput defines the input for the polsweep_query tool.
type QueryInput struct {
	Filters map[string]string `json:"filters,omitempty" jsonschema:"Parameter field filters (translate, tactic, media, citizen, epsilon, graph, graph_param)"`
	Label   string            `json:"label,omitempty" jsonschema:"Restrict to 'polarizing' or 'nonpolarizing' records"`
}

// RecordSummary is the per-condition view returned by polsweep_query.
type RecordSummary struct {
	Key        string    `json:"key"`
	Reps       int       `json:"reps"`
	Fit        trend.Fit `json:"fit"`
	Polarizing bool      `json:"polarizing"`
}

// QueryOutput defines the output for the polsweep_query tool.
type QueryOutput struct {
	Records []RecordSummary `json:"records" jsonschema:"Matching aggregated records"`
	Count   int             `json:"count" jsonschema:"Number of matching records"`
}

// SummaryInput defines the input for the polsweep_summary tool.
type SummaryInput struct {
	By string `json:"by,omitempty" jsonschema:"Parameter field to group shares by (e.g. tactic); empty for the overall summary"`
}

// ShareRow is one group's polarizing share.
type ShareRow struct {
	Value      string  `json:"value"`
	Total      int     `json:"total"`
	Polarizing int     `json:"polarizing"`
	Share      float64 `json:"share"`
}

// SummaryOutput defines the output for the polsweep_summary tool.
type SummaryOutput struct {
	Total         int        `json:"total" jsonschema:"Total number of conditions"`
	Polarizing    int        `json:"polarizing" jsonschema:"Number of polarizing conditions"`
	Nonpolarizing int        `json:"nonpolarizing" jsonschema:"Number of nonpolarizing conditions"`
	Shares        []ShareRow `json:"shares,omitempty" jsonschema:"Per-group shares when grouped by a field"`
}

// ClassifyInput defines the input for the polsweep_classify tool.
type ClassifyInput struct {
	Series []float64 `json:"series" jsonschema:"Polarization metric series to fit and classify"`
}

// ClassifyOutput defines the output for the polsweep_classify tool.
type ClassifyOutput struct {
	Fit        trend.Fit        `json:"fit" jsonschema:"Fitted trend and summary statistics"`
	Thresholds trend.Thresholds `json:"thresholds" jsonschema:"Thresholds used for the label"`
	Polarizing bool             `json:"polarizing" jsonschema:"Classification result"`
}
