package ports

import (
	"context"

	"gwsiren/domain/core"
)

// EventRecord is the per-event output of a simulation batch: the H0 grid,
// the normalized posterior density on it, and the ground truth needed to
// score the posterior later. Records from independently generated batches
// are merged by simple concatenation; nothing in the schema is
// order-dependent.
type EventRecord struct {
	EventID          core.EventID `json:"event_id" db:"event_id"`
	RunID            core.RunID   `json:"run_id" db:"run_id"`
	TrueH0           float64      `json:"true_h0" db:"true_h0"`
	ObservedDistance float64      `json:"observed_dl" db:"observed_dl"`
	Grid             []float64    `json:"grid"`
	Density          []float64    `json:"density"`
}

// RecordStore persists per-event records. Implementations are file-based
// (JSONL, SQLite); a long batch appends as it goes so a restart can resume
// from partial output.
type RecordStore interface {
	// Save appends one record.
	Save(ctx context.Context, rec EventRecord) error

	// List returns all records in unspecified order.
	List(ctx context.Context) ([]EventRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying file handle.
	Close() error
}
