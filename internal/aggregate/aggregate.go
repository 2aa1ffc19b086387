// Package aggregate folds repeated trials into one record per parameter
// combination and labels each record with the polarization classifier.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/opdyn/polsweep/internal/params"
	"github.com/opdyn/polsweep/internal/results"
	"github.com/opdyn/polsweep/internal/trend"
)

// Record is the aggregate of all repetitions of one condition: the mean
// metric trend, the averaged fitted parameters and summary statistics,
// and the resulting polarization label.
type Record struct {
	Params     params.Set `json:"params"` // Run is always zero here
	Reps       int        `json:"reps"`
	Fit        trend.Fit  `json:"fit"`
	Polarizing bool       `json:"polarizing"`

	// MeanSeries is the element-wise mean of the repetition series,
	// truncated to the shortest repetition. Used for plotting.
	MeanSeries []float64 `json:"mean_series,omitempty"`
}

// Key returns the record's condition key.
func (r Record) Key() string { return r.Params.Key() }

// Table is a flat collection of aggregated records, one per condition,
// ordered by condition key.
type Table struct {
	Records []Record
}

// Build groups trials by condition, fits each repetition, averages the
// fits arithmetically, and classifies the averaged fit against the
// thresholds. Conditions whose every repetition fails to fit are
// reported as errors by the caller-facing error list in the result.
func Build(trials []results.Trial, th trend.Thresholds) (*Table, []error) {
	byKey := make(map[string][]results.Trial)
	for _, t := range trials {
		key := t.Params.Key()
		byKey[key] = append(byKey[key], t)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := &Table{}
	var errs []error
	for _, key := range keys {
		group := byKey[key]
		sort.Slice(group, func(i, j int) bool { return group[i].Params.Run < group[j].Params.Run })

		fits := make([]trend.Fit, 0, len(group))
		series := make([][]float64, 0, len(group))
		for _, t := range group {
			f, err := trend.FitSeries(t.Series)
			if err != nil {
				errs = append(errs, fmt.Errorf("condition %s run %d: %w", key, t.Params.Run, err))
				continue
			}
			fits = append(fits, f)
			series = append(series, t.Series)
		}
		if len(fits) == 0 {
			errs = append(errs, fmt.Errorf("condition %s: no usable repetitions", key))
			continue
		}

		mean, err := trend.Mean(fits)
		if err != nil {
			errs = append(errs, fmt.Errorf("condition %s: %w", key, err))
			continue
		}

		p := group[0].Params
		p.Run = 0
		table.Records = append(table.Records, Record{
			Params:     p,
			Reps:       len(fits),
			Fit:        mean,
			Polarizing: th.Polarizing(mean),
			MeanSeries: meanSeries(series),
		})
	}
	return table, errs
}

// meanSeries averages the series element-wise, truncated to the
// shortest one.
func meanSeries(series [][]float64) []float64 {
	n := len(series[0])
	for _, s := range series {
		if len(s) < n {
			n = len(s)
		}
	}
	out := make([]float64, n)
	for _, s := range series {
		for i := 0; i < n; i++ {
			out[i] += s[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(series))
	}
	return out
}

// Polarizing returns the subset of records labeled polarizing.
func (t *Table) Polarizing() []Record { return t.subset(true) }

// Nonpolarizing returns the subset of records labeled nonpolarizing.
// Together with Polarizing it partitions the table exactly.
func (t *Table) Nonpolarizing() []Record { return t.subset(false) }

func (t *Table) subset(polarizing bool) []Record {
	out := make([]Record, 0)
	for _, r := range t.Records {
		if r.Polarizing == polarizing {
			out = append(out, r)
		}
	}
	return out
}

// Filter returns a new table holding only records whose named parameter
// field renders to the given value.
func (t *Table) Filter(field, value string) (*Table, error) {
	out := &Table{}
	for _, r := range t.Records {
		v, err := r.Params.Field(field)
		if err != nil {
			return nil, err
		}
		if v == value {
			out.Records = append(out.Records, r)
		}
	}
	return out, nil
}

// Uniques returns the sorted distinct values of a parameter field.
func (t *Table) Uniques(field string) ([]string, error) {
	seen := make(map[string]bool)
	for _, r := range t.Records {
		v, err := r.Params.Field(field)
		if err != nil {
			return nil, err
		}
		seen[v] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// Share summarizes the polarizing fraction for one value of a field.
type Share struct {
	Value      string  `json:"value"`
	Total      int     `json:"total"`
	Polarizing int     `json:"polarizing"`
	Share      float64 `json:"share"`
}

// ShareBy computes, for each distinct value of the field, the fraction
// of conditions labeled polarizing. These are the study's headline
// tables.
func (t *Table) ShareBy(field string) ([]Share, error) {
	totals := make(map[string]int)
	polar := make(map[string]int)
	for _, r := range t.Records {
		v, err := r.Params.Field(field)
		if err != nil {
			return nil, err
		}
		totals[v]++
		if r.Polarizing {
			polar[v]++
		}
	}

	values := make([]string, 0, len(totals))
	for v := range totals {
		values = append(values, v)
	}
	sort.Strings(values)

	out := make([]Share, 0, len(values))
	for _, v := range values {
		out = append(out, Share{
			Value:      v,
			Total:      totals[v],
			Polarizing: polar[v],
			Share:      float64(polar[v]) / float64(totals[v]),
		})
	}
	return out, nil
}

// Lookup finds the record for a condition key. The key is normalized
// first, so a literal directory name with a non-canonical float
// rendering ("epsilon-1.0") finds the record stored under "epsilon-1".
func (t *Table) Lookup(key string) (Record, bool) {
	if canonical, err := params.Canonical(key); err == nil {
		key = canonical
	}
	for _, r := range t.Records {
		if r.Key() == key {
			return r, true
		}
	}
	return Record{}, false
}
