package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/netgen"
	"github.com/opdyn/polsweep/internal/params"
	"github.com/opdyn/polsweep/internal/trend"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"tactic=broadcast", "epsilon=1"})
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if filters["tactic"] != "broadcast" || filters["epsilon"] != "1" {
		t.Errorf("unexpected filters: %v", filters)
	}
}

func TestParseFiltersEmpty(t *testing.T) {
	filters, err := parseFilters(nil)
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if filters != nil {
		t.Errorf("expected nil map for no args, got %v", filters)
	}
}

func TestParseFiltersInvalid(t *testing.T) {
	for _, arg := range []string{"tactic", "=broadcast"} {
		if _, err := parseFilters([]string{arg}); err == nil {
			t.Errorf("expected error for %q", arg)
		}
	}
}

func TestParseFiltersValueWithEquals(t *testing.T) {
	filters, err := parseFilters([]string{"tactic=a=b"})
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if filters["tactic"] != "a=b" {
		t.Errorf("expected value to keep later '=', got %q", filters["tactic"])
	}
}

func TestLabelRecords(t *testing.T) {
	table := &aggregate.Table{Records: []aggregate.Record{
		{Params: params.Set{Tactic: "broadcast"}, Polarizing: true},
		{Params: params.Set{Tactic: "appeal-mean"}, Polarizing: false},
	}}

	all, err := labelRecords(table, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 records, got %d (err=%v)", len(all), err)
	}
	polar, err := labelRecords(table, "polarizing")
	if err != nil || len(polar) != 1 || !polar[0].Polarizing {
		t.Fatalf("expected 1 polarizing record, got %v (err=%v)", polar, err)
	}
	non, err := labelRecords(table, "nonpolarizing")
	if err != nil || len(non) != 1 || non[0].Polarizing {
		t.Fatalf("expected 1 nonpolarizing record, got %v (err=%v)", non, err)
	}
	if _, err := labelRecords(table, "bogus"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestLabelOf(t *testing.T) {
	if got := labelOf(aggregate.Record{Polarizing: true}); got != "polarizing" {
		t.Errorf("labelOf(true) = %q", got)
	}
	if got := labelOf(aggregate.Record{}); got != "nonpolarizing" {
		t.Errorf("labelOf(false) = %q", got)
	}
}

func TestPlotFileName(t *testing.T) {
	key := "translate-1,tactic-broadcast,media-uniform,citizen-normal,epsilon-1,graph-ws-0.5"
	got := plotFileName(key)
	if strings.ContainsAny(got, ",/") {
		t.Errorf("plot file name contains unsafe characters: %q", got)
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("expected .png suffix, got %q", got)
	}
}

func TestReadAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beliefs.json")
	if err := os.WriteFile(path, []byte(`{"0": 1.5, "1": 3, "2": 6}`), 0o644); err != nil {
		t.Fatal(err)
	}
	attrs, err := readAttrs(path)
	if err != nil {
		t.Fatalf("readAttrs: %v", err)
	}
	if len(attrs) != 3 || attrs[0] != 1.5 || attrs[2] != 6 {
		t.Errorf("unexpected attrs: %v", attrs)
	}
}

func TestReadAttrsBadNodeID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beliefs.json")
	if err := os.WriteFile(path, []byte(`{"turtle": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readAttrs(path); err == nil {
		t.Error("expected error for non-integer node id")
	}
}

func TestGraphMeasures(t *testing.T) {
	g, err := netgen.Complete(3)
	if err != nil {
		t.Fatal(err)
	}
	attrs := map[int64]float64{0: 0, 1: 3, 2: 6}
	m, err := graphMeasures(g, attrs, 6)
	if err != nil {
		t.Fatalf("graphMeasures: %v", err)
	}
	if m.Homophily <= 0 || m.Polarization <= 0 || m.Disagreement <= 0 {
		t.Errorf("expected positive measures for spread beliefs, got %+v", m)
	}
}

func TestWriteExportCSV(t *testing.T) {
	table := &aggregate.Table{Records: []aggregate.Record{
		{
			Params:     params.Set{Translate: 1, Tactic: "broadcast", MediaDist: "uniform", CitizenDist: "normal", Epsilon: 1, GraphType: "ws", GraphParam: 0.5},
			Reps:       2,
			Fit:        trend.Fit{Slope: 0.02, Delta: 1.2, Steps: 100},
			Polarizing: true,
		},
	}}
	var buf bytes.Buffer
	if err := writeExport(&buf, table, "csv"); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "broadcast") {
		t.Errorf("CSV output missing record data:\n%s", out)
	}
	if !strings.HasPrefix(out, "key,") {
		t.Errorf("CSV output missing header:\n%s", out)
	}
}
