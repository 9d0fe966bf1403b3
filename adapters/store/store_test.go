package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwsiren/domain/core"
	"gwsiren/ports"
)

func sampleRecords(n int) []ports.EventRecord {
	runID := core.RunID(core.NewID())
	out := make([]ports.EventRecord, n)
	for i := range out {
		out[i] = ports.EventRecord{
			EventID:          core.EventID(core.NewID()),
			RunID:            runID,
			TrueH0:           70,
			ObservedDistance: 250 + float64(i),
			Grid:             []float64{50, 75, 100},
			Density:          []float64{0.01, 0.03, 0.002},
		}
	}
	return out
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := NewJSONLStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	records := sampleRecords(5)
	for _, rec := range records {
		require.NoError(t, s.Save(ctx, rec))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(records))
	assert.Equal(t, records, got)
	require.NoError(t, s.Close())
}

// TestJSONLAppendsAcrossReopens tests batch resumption: reopening the same
// file keeps earlier records.
func TestJSONLAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	ctx := context.Background()

	first, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleRecords(1)[0]))
	require.NoError(t, first.Close())

	second, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, second.Save(ctx, sampleRecords(1)[0]))
	defer second.Close()

	n, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	records := sampleRecords(5)
	for _, rec := range records {
		require.NoError(t, s.Save(ctx, rec))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, records, got)
}

// TestSQLiteUpsert tests that rerunning an event replaces its record
// instead of duplicating it.
func TestSQLiteUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	rec := sampleRecords(1)[0]
	require.NoError(t, s.Save(ctx, rec))

	rec.ObservedDistance = 999
	require.NoError(t, s.Save(ctx, rec))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 999.0, got[0].ObservedDistance)
}
