package mcp

import (
	"context"
	"testing"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/params"
	"github.com/opdyn/polsweep/internal/store"
	"github.com/opdyn/polsweep/internal/trend"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	rs, err := store.NewResultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultStore: %v", err)
	}
	t.Cleanup(func() { rs.Close() })

	mk := func(tactic string, polarizing bool) aggregate.Record {
		return aggregate.Record{
			Params: params.Set{
				Translate: 1, Tactic: tactic, MediaDist: "uniform", CitizenDist: "normal",
				Epsilon: 1, GraphType: "ws", GraphParam: 0.5,
			},
			Reps:       2,
			Fit:        trend.Fit{Slope: 0.05, Delta: 2, Variance: 0.1, Steps: 10},
			Polarizing: polarizing,
			MeanSeries: []float64{0, 1, 2},
		}
	}
	table := &aggregate.Table{Records: []aggregate.Record{
		mk("appeal-mean", false),
		mk("broadcast", true),
	}}
	if err := rs.Save(context.Background(), table); err != nil {
		t.Fatalf("Save: %v", err)
	}

	return NewServer(&Config{
		Name:       "polsweep",
		Version:    "test",
		Store:      rs,
		Thresholds: trend.DefaultThresholds(),
	})
}

func TestHandleQueryAll(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Count != 2 || len(out.Records) != 2 {
		t.Errorf("Count = %d, records = %d, want 2", out.Count, len(out.Records))
	}
}

func TestHandleQueryLabel(t *testing.T) {
	s := testServer(t)
	ctx := context.Background()

	_, out, err := s.handleQuery(ctx, nil, QueryInput{Label: "polarizing"})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Count != 1 || !out.Records[0].Polarizing {
		t.Errorf("polarizing query returned %+v", out)
	}

	_, out, err = s.handleQuery(ctx, nil, QueryInput{Label: "nonpolarizing"})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Count != 1 || out.Records[0].Polarizing {
		t.Errorf("nonpolarizing query returned %+v", out)
	}

	if _, _, err := s.handleQuery(ctx, nil, QueryInput{Label: "maybe"}); err == nil {
		t.Error("unknown label accepted")
	}
}

func TestHandleQueryFilters(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{
		Filters: map[string]string{"tactic": "broadcast"},
	})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("filtered query returned %d records, want 1", out.Count)
	}
}

func TestHandleSummary(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleSummary(context.Background(), nil, SummaryInput{By: "tactic"})
	if err != nil {
		t.Fatalf("handleSummary: %v", err)
	}
	if out.Total != 2 || out.Polarizing != 1 || out.Nonpolarizing != 1 {
		t.Errorf("summary = %+v", out)
	}
	if len(out.Shares) != 2 {
		t.Fatalf("shares = %d, want 2", len(out.Shares))
	}
	if out.Shares[1].Value != "broadcast" || out.Shares[1].Share != 1 {
		t.Errorf("broadcast share = %+v", out.Shares[1])
	}

	if _, _, err := s.handleSummary(context.Background(), nil, SummaryInput{By: "bogus"}); err == nil {
		t.Error("unknown group field accepted")
	}
}

func TestHandleClassify(t *testing.T) {
	s := testServer(t)
	ctx := context.Background()

	_, out, err := s.handleClassify(ctx, nil, ClassifyInput{Series: []float64{0, 1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("handleClassify: %v", err)
	}
	if !out.Polarizing {
		t.Errorf("steadily rising series not labeled polarizing: %+v", out.Fit)
	}

	_, out, err = s.handleClassify(ctx, nil, ClassifyInput{Series: []float64{1, 1, 1, 1}})
	if err != nil {
		t.Fatalf("handleClassify: %v", err)
	}
	if out.Polarizing {
		t.Error("flat series labeled polarizing")
	}

	if _, _, err := s.handleClassify(ctx, nil, ClassifyInput{Series: []float64{1}}); err == nil {
		t.Error("one-point series accepted")
	}
}
