package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaVersion tracks the result table layout. Bump when columns change.
const schemaVersion = 1

const createRecordsSQL = `
CREATE TABLE IF NOT EXISTS records (
	key          TEXT PRIMARY KEY,
	translate    INTEGER NOT NULL,
	tactic       TEXT NOT NULL,
	media        TEXT NOT NULL,
	citizen      TEXT NOT NULL,
	epsilon      REAL NOT NULL,
	graph        TEXT NOT NULL,
	graph_param  REAL NOT NULL,
	reps         INTEGER NOT NULL,
	intercept    REAL NOT NULL,
	slope        REAL NOT NULL,
	variance     REAL NOT NULL,
	start_val    REAL NOT NULL,
	end_val      REAL NOT NULL,
	delta        REAL NOT NULL,
	max_val      REAL NOT NULL,
	steps        INTEGER NOT NULL,
	polarizing   INTEGER NOT NULL,
	mean_series  TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_tactic ON records(tactic);
CREATE INDEX IF NOT EXISTS idx_records_polarizing ON records(polarizing);

CREATE TABLE IF NOT EXISTS meta (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
`

// InitSchema creates the result tables if they do not exist and records
// the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createRecordsSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (k, v) VALUES ('schema_version', ?)`,
		fmt.Sprint(schemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// SchemaVersion reads the stored schema version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
