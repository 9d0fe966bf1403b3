package ports

import (
	"context"
	"math/rand"

	"gwsiren/domain/core"
)

// RNG provides seeded random number generation for deterministic operations
type RNG interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// EventStream creates a deterministic RNG stream for one event in a run.
	// Streams depend only on (runID, event index, base seed), so parallel
	// batches reproduce the same events regardless of worker scheduling.
	EventStream(ctx context.Context, runID core.RunID, eventIndex int, baseSeed int64) (*rand.Rand, error)
}
