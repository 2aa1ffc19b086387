// Package results loads per-trial simulation result files from a
// directory tree of parameter-encoded condition directories.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/opdyn/polsweep/internal/params"
)

// Trial is one simulation run's polarization series for a fixed
// parameter combination.
type Trial struct {
	Params params.Set `json:"params"`
	Series []float64  `json:"series"` // metric value per tick, ordered by step
}

// LoadError records a skipped file or row. Malformed input is skipped
// but recorded here for debugging rather than failing the whole scan.
type LoadError struct {
	File  string `json:"file"`
	Line  int    `json:"line,omitempty"` // 0 when the whole file was skipped
	Error string `json:"error"`
}

// ScanResult holds all trials found under a results root plus any
// recoverable errors encountered along the way.
type ScanResult struct {
	Trials []Trial
	Errors []LoadError
}

// Scan walks a results root and loads every trial file. The root must
// exist; condition directories with unparseable names and malformed
// trial files are recorded in Errors and skipped.
func Scan(root string) (*ScanResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading results root: %w", err)
	}

	res := &ScanResult{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		set, err := params.Parse(entry.Name())
		if err != nil {
			res.Errors = append(res.Errors, LoadError{File: entry.Name(), Error: err.Error()})
			continue
		}
		if err := scanCondition(filepath.Join(root, entry.Name()), set, res); err != nil {
			return nil, err
		}
	}

	// Deterministic order: by condition key, then repetition.
	sort.Slice(res.Trials, func(i, j int) bool {
		ki, kj := res.Trials[i].Params.Key(), res.Trials[j].Params.Key()
		if ki != kj {
			return ki < kj
		}
		return res.Trials[i].Params.Run < res.Trials[j].Params.Run
	})
	return res, nil
}

// scanCondition loads the run-<rep>.csv files of one condition directory.
func scanCondition(dir string, set params.Set, res *ScanResult) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading condition directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rep, ok := parseRunName(entry.Name())
		if !ok {
			continue // README, plots, other non-trial files
		}
		path := filepath.Join(dir, entry.Name())
		trial, errs, err := ReadTrialFile(path, set, rep)
		res.Errors = append(res.Errors, errs...)
		if err != nil {
			res.Errors = append(res.Errors, LoadError{File: path, Error: err.Error()})
			continue
		}
		res.Trials = append(res.Trials, trial)
	}
	return nil
}

// parseRunName extracts the repetition index from "run-<rep>.csv".
func parseRunName(name string) (int, bool) {
	if !strings.HasPrefix(name, "run-") || !strings.HasSuffix(name, ".csv") {
		return 0, false
	}
	rep, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "run-"), ".csv"))
	if err != nil || rep < 0 {
		return 0, false
	}
	return rep, true
}

// ReadTrialFile reads a single trial CSV from disk.
func ReadTrialFile(path string, set params.Set, rep int) (Trial, []LoadError, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trial{}, nil, fmt.Errorf("opening trial file: %w", err)
	}
	defer f.Close()
	return ReadTrial(f, path, set, rep)
}

// ReadTrial parses a trial CSV. The header must name a "polarization"
// column; a "step" column, when present, orders the rows. Extra columns
// are ignored. Rows with unparseable or NaN metric values are skipped
// and recorded as LoadErrors.
func ReadTrial(r io.Reader, path string, set params.Set, rep int) (Trial, []LoadError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per-row below

	header, err := cr.Read()
	if err != nil {
		return Trial{}, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	metricCol, stepCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "polarization":
			metricCol = i
		case "step":
			stepCol = i
		}
	}
	if metricCol < 0 {
		return Trial{}, nil, fmt.Errorf("%s: header has no polarization column", path)
	}

	type row struct {
		step  int
		value float64
	}
	var rows []row
	var errs []LoadError
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, LoadError{File: path, Line: line, Error: err.Error()})
			continue
		}
		if metricCol >= len(record) {
			errs = append(errs, LoadError{File: path, Line: line, Error: "row has no polarization value"})
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[metricCol]), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			errs = append(errs, LoadError{File: path, Line: line, Error: fmt.Sprintf("bad polarization value %q", record[metricCol])})
			continue
		}
		step := len(rows)
		if stepCol >= 0 && stepCol < len(record) {
			if s, err := strconv.Atoi(strings.TrimSpace(record[stepCol])); err == nil {
				step = s
			}
		}
		rows = append(rows, row{step: step, value: value})
	}

	if len(rows) == 0 {
		return Trial{}, errs, fmt.Errorf("%s: no usable rows", path)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].step < rows[j].step })

	set.Run = rep
	trial := Trial{Params: set, Series: make([]float64, len(rows))}
	for i, r := range rows {
		trial.Series[i] = r.value
	}
	return trial, errs, nil
}
