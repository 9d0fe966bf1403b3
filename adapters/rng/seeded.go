// Package rng provides the deterministic random-stream adapter. Every
// stream seed derives from a stable hash, so a batch rerun with the same
// configuration reproduces every event bit-for-bit regardless of worker
// scheduling.
package rng

import (
	"context"
	"fmt"
	"math/rand"

	"gwsiren/domain/core"
	"gwsiren/ports"
)

// SeededAdapter implements ports.RNG with hash-derived seeds.
type SeededAdapter struct{}

// NewSeededAdapter creates a new seeded RNG adapter.
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

var _ ports.RNG = (*SeededAdapter)(nil)

// SeededStream creates a deterministic generator for a named operation.
func (a *SeededAdapter) SeededStream(_ context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(core.DeriveSeed("", name, seed))), nil
}

// EventStream creates the per-event generator for one event of a run.
func (a *SeededAdapter) EventStream(_ context.Context, runID core.RunID, eventIndex int, baseSeed int64) (*rand.Rand, error) {
	stream := fmt.Sprintf("event-%d", eventIndex)
	return rand.New(rand.NewSource(core.DeriveSeed(runID, stream, baseSeed))), nil
}
