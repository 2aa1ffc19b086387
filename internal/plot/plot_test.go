package plot

import (
	"bytes"
	"testing"

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/params"
	"github.com/opdyn/polsweep/internal/trend"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testRecord() aggregate.Record {
	return aggregate.Record{
		Params: params.Set{
			Translate: 1, Tactic: "broadcast", MediaDist: "uniform", CitizenDist: "normal",
			Epsilon: 1, GraphType: "ws", GraphParam: 0.5,
		},
		Reps:       2,
		Fit:        trend.Fit{Intercept: 0.1, Slope: 0.5, Variance: 0.01, Start: 0, End: 2, Delta: 2, Max: 2, Steps: 5},
		Polarizing: true,
		MeanSeries: []float64{0, 0.6, 1.1, 1.4, 2},
	}
}

func TestTrendChartRendersPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := TrendChart(&buf, testRecord(), Options{Width: 400, Height: 300}); err != nil {
		t.Fatalf("TrendChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestTrendChartTooFewPoints(t *testing.T) {
	rec := testRecord()
	rec.MeanSeries = []float64{1}

	var buf bytes.Buffer
	if err := TrendChart(&buf, rec, Options{}); err == nil {
		t.Error("TrendChart accepted a one-point series")
	}
}

func TestShareChartRendersPNG(t *testing.T) {
	shares := []aggregate.Share{
		{Value: "appeal-mean", Total: 10, Polarizing: 2, Share: 0.2},
		{Value: "broadcast", Total: 10, Polarizing: 7, Share: 0.7},
	}

	var buf bytes.Buffer
	if err := ShareChart(&buf, "tactic", shares, Options{Width: 400, Height: 300}); err != nil {
		t.Fatalf("ShareChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestShareChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ShareChart(&buf, "tactic", nil, Options{}); err == nil {
		t.Error("ShareChart accepted empty shares")
	}
}
