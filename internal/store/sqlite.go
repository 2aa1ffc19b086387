// Package store persists aggregated sweep results and exports them for
// downstream analysis.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/opdyn/polsweep/internal/aggregate"
	"github.com/opdyn/polsweep/internal/params"
	"github.com/opdyn/polsweep/internal/pathutil"
)

// ResultStore persists aggregated records in a SQLite database under
// <root>/.polsweep/results.db. One row per condition key; re-saving a
// condition replaces its row.
type ResultStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewResultStore opens (creating if needed) the result database rooted
// at projectRoot.
func NewResultStore(projectRoot string) (*ResultStore, error) {
	if err := os.MkdirAll(pathutil.Dir(projectRoot), 0755); err != nil {
		return nil, fmt.Errorf("creating .polsweep directory: %w", err)
	}

	dbPath := pathutil.DBPath(projectRoot)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &ResultStore{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *ResultStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save upserts every record of the table.
func (s *ResultStore) Save(ctx context.Context, table *aggregate.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO records (
			key, translate, tactic, media, citizen, epsilon, graph, graph_param,
			reps, intercept, slope, variance, start_val, end_val, delta, max_val,
			steps, polarizing, mean_series, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range table.Records {
		series, err := json.Marshal(r.MeanSeries)
		if err != nil {
			return fmt.Errorf("encoding mean series for %s: %w", r.Key(), err)
		}
		polarizing := 0
		if r.Polarizing {
			polarizing = 1
		}
		_, err = stmt.ExecContext(ctx,
			r.Key(), r.Params.Translate, r.Params.Tactic, r.Params.MediaDist,
			r.Params.CitizenDist, r.Params.Epsilon, r.Params.GraphType, r.Params.GraphParam,
			r.Reps, r.Fit.Intercept, r.Fit.Slope, r.Fit.Variance,
			r.Fit.Start, r.Fit.End, r.Fit.Delta, r.Fit.Max,
			r.Fit.Steps, polarizing, string(series), now)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.Key(), err)
		}
	}

	return tx.Commit()
}

// queryColumns maps parameter field names to record columns. Only these
// fields are filterable; anything else is a caller error.
var queryColumns = map[string]string{
	"translate":   "translate",
	"tactic":      "tactic",
	"media":       "media",
	"citizen":     "citizen",
	"epsilon":     "epsilon",
	"graph":       "graph",
	"graph_param": "graph_param",
}

// Load reads records back into a table, optionally filtered by
// parameter fields (string renderings, as in params.Set.Field).
func (s *ResultStore) Load(ctx context.Context, filters map[string]string) (*aggregate.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT key, translate, tactic, media, citizen, epsilon, graph, graph_param,
		reps, intercept, slope, variance, start_val, end_val, delta, max_val,
		steps, polarizing, mean_series FROM records`

	var clauses []string
	var args []any
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		col, ok := queryColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q", field)
		}
		clauses = append(clauses, col+" = ?")
		args = append(args, filters[field])
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY key"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	table := &aggregate.Table{}
	for rows.Next() {
		var (
			r          aggregate.Record
			key        string
			polarizing int
			series     string
		)
		err := rows.Scan(&key, &r.Params.Translate, &r.Params.Tactic, &r.Params.MediaDist,
			&r.Params.CitizenDist, &r.Params.Epsilon, &r.Params.GraphType, &r.Params.GraphParam,
			&r.Reps, &r.Fit.Intercept, &r.Fit.Slope, &r.Fit.Variance,
			&r.Fit.Start, &r.Fit.End, &r.Fit.Delta, &r.Fit.Max,
			&r.Fit.Steps, &polarizing, &series)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Polarizing = polarizing != 0
		if err := json.Unmarshal([]byte(series), &r.MeanSeries); err != nil {
			return nil, fmt.Errorf("decoding mean series for %s: %w", key, err)
		}
		table.Records = append(table.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return table, nil
}

// Count returns the number of stored records.
func (s *ResultStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Lookup loads a single record by condition key.
func (s *ResultStore) Lookup(ctx context.Context, set params.Set) (aggregate.Record, bool, error) {
	table, err := s.Load(ctx, map[string]string{
		"tactic":  set.Tactic,
		"media":   set.MediaDist,
		"citizen": set.CitizenDist,
	})
	if err != nil {
		return aggregate.Record{}, false, err
	}
	r, ok := table.Lookup(set.Key())
	return r, ok, nil
}
