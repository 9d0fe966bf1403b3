// Package app wires the domain engines into the two top-level workflows:
// running a simulation batch and scoring its calibration.
package app

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gwsiren/domain/core"
	"gwsiren/domain/posterior"
	"gwsiren/internal/inference"
	"gwsiren/internal/simulate"
	"gwsiren/ports"
)

// BatchConfig parameterizes one simulation batch.
type BatchConfig struct {
	RunID   core.RunID
	Events  int
	Workers int
	Seed    int64
}

// BatchSummary reports what a batch produced. Failures are counted, not
// fatal: a batch with some failed events still yields a usable record set.
type BatchSummary struct {
	RunID              core.RunID
	StartedAt          core.Timestamp
	Requested          int
	Saved              int
	GenerationFailures int
	Degenerate         int
	Elapsed            time.Duration
}

// BatchService runs simulation batches: generate events in parallel, compute
// each event's posterior, persist the records. Event posteriors are
// independent, so workers never coordinate beyond the store's own locking;
// determinism comes from per-event seed derivation, not from ordering.
type BatchService struct {
	gen   *simulate.Generator
	post  *inference.PosteriorEngine
	rng   ports.RNG
	store ports.RecordStore
	grid  posterior.H0Grid
	log   *zap.Logger
}

// NewBatchService wires a batch service from its collaborators.
func NewBatchService(
	gen *simulate.Generator,
	post *inference.PosteriorEngine,
	rng ports.RNG,
	store ports.RecordStore,
	grid posterior.H0Grid,
	log *zap.Logger,
) *BatchService {
	return &BatchService{gen: gen, post: post, rng: rng, store: store, grid: grid, log: log}
}

// Run executes one batch. Per-event generation failures and degenerate
// posteriors are logged, counted, and skipped; any other error aborts the
// batch.
func (s *BatchService) Run(ctx context.Context, cfg BatchConfig) (BatchSummary, error) {
	if cfg.Events <= 0 {
		return BatchSummary{}, core.NewValidationError("events", "must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	startedAt := core.Now()
	start := time.Now()
	s.log.Info("starting batch",
		zap.String("run_id", cfg.RunID.String()),
		zap.Int("events", cfg.Events),
		zap.Int("workers", cfg.Workers),
	)

	var saved, genFailures, degenerate atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Events; i++ {
		index := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng, err := s.rng.EventStream(ctx, cfg.RunID, index, cfg.Seed)
			if err != nil {
				return err
			}

			ev, err := s.gen.Generate(rng)
			if core.IsGenerationFailure(err) {
				genFailures.Add(1)
				s.log.Warn("event generation exhausted retries", zap.Int("index", index))
				return nil
			}
			if err != nil {
				return err
			}

			p, err := s.post.Compute(ev, s.grid)
			if core.IsDegeneratePosterior(err) {
				degenerate.Add(1)
				s.log.Warn("degenerate posterior, skipping event",
					zap.Int("index", index),
					zap.String("event_id", ev.ID.String()),
				)
				return nil
			}
			if err != nil {
				return err
			}

			rec := ports.EventRecord{
				EventID:          ev.ID,
				RunID:            cfg.RunID,
				TrueH0:           ev.TrueH0,
				ObservedDistance: ev.ObservedDistance,
				Grid:             p.Grid.Values,
				Density:          p.Density,
			}
			if err := s.store.Save(ctx, rec); err != nil {
				return err
			}
			saved.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{
		RunID:              cfg.RunID,
		StartedAt:          startedAt,
		Requested:          cfg.Events,
		Saved:              int(saved.Load()),
		GenerationFailures: int(genFailures.Load()),
		Degenerate:         int(degenerate.Load()),
		Elapsed:            time.Since(start),
	}
	s.log.Info("batch complete",
		zap.Int("saved", summary.Saved),
		zap.Int("generation_failures", summary.GenerationFailures),
		zap.Int("degenerate", summary.Degenerate),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}
