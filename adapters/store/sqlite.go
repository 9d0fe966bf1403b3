package store

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"gwsiren/domain/core"
	"gwsiren/internal/errors"
	"gwsiren/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS event_records (
	event_id    TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	true_h0     REAL NOT NULL,
	observed_dl REAL NOT NULL,
	grid        TEXT NOT NULL,
	density     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_event_records_run ON event_records (run_id);
`

// SQLiteStore persists per-event records in a single-file SQLite database.
// Like the JSONL store it is append-friendly and merge-friendly: batches
// written to separate files can be read back together, and rerunning a
// partial batch upserts rather than duplicates.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a record database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.StoreError("failed to open record database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.StoreError("failed to prepare record schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ ports.RecordStore = (*SQLiteStore)(nil)

// recordRow is the flat database shape of an EventRecord.
type recordRow struct {
	EventID    string  `db:"event_id"`
	RunID      string  `db:"run_id"`
	TrueH0     float64 `db:"true_h0"`
	ObservedDL float64 `db:"observed_dl"`
	Grid       string  `db:"grid"`
	Density    string  `db:"density"`
}

// Save upserts one record.
func (s *SQLiteStore) Save(ctx context.Context, rec ports.EventRecord) error {
	grid, err := json.Marshal(rec.Grid)
	if err != nil {
		return errors.StoreError("failed to encode grid", err)
	}
	density, err := json.Marshal(rec.Density)
	if err != nil {
		return errors.StoreError("failed to encode density", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO event_records (event_id, run_id, true_h0, observed_dl, grid, density)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.EventID.String(), rec.RunID.String(), rec.TrueH0, rec.ObservedDistance, string(grid), string(density))
	if err != nil {
		return errors.StoreError("failed to insert record", err)
	}
	return nil
}

// List returns all records.
func (s *SQLiteStore) List(ctx context.Context) ([]ports.EventRecord, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT event_id, run_id, true_h0, observed_dl, grid, density
		FROM event_records
	`)
	if err != nil {
		return nil, errors.StoreError("failed to query records", err)
	}

	records := make([]ports.EventRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM event_records`); err != nil {
		return 0, errors.StoreError("failed to count records", err)
	}
	return n, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (r recordRow) toRecord() (ports.EventRecord, error) {
	rec := ports.EventRecord{
		TrueH0:           r.TrueH0,
		ObservedDistance: r.ObservedDL,
	}
	eventID, err := core.ParseEventID(r.EventID)
	if err != nil {
		return ports.EventRecord{}, errors.StoreError("invalid event id", err)
	}
	rec.EventID = eventID
	runID, err := core.ParseRunID(r.RunID)
	if err != nil {
		return ports.EventRecord{}, errors.StoreError("invalid run id", err)
	}
	rec.RunID = runID
	if err := json.Unmarshal([]byte(r.Grid), &rec.Grid); err != nil {
		return ports.EventRecord{}, errors.StoreError("failed to decode grid", err)
	}
	if err := json.Unmarshal([]byte(r.Density), &rec.Density); err != nil {
		return ports.EventRecord{}, errors.StoreError("failed to decode density", err)
	}
	return rec, nil
}
