package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gwsiren/adapters/excel"
	"gwsiren/adapters/rng"
	"gwsiren/adapters/store"
	"gwsiren/app"
	"gwsiren/domain/catalog"
	"gwsiren/domain/core"
	"gwsiren/domain/cosmology"
	"gwsiren/domain/posterior"
	"gwsiren/domain/selection"
	"gwsiren/internal/config"
	"gwsiren/internal/inference"
	"gwsiren/internal/simulate"
	"gwsiren/ports"
)

func newSimulateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a batch of detected events and persist their H0 posteriors",
		Long: `Generate simulated standard-siren detections under a known injection H0,
compute each event's H0 posterior against the configured galaxy population,
and append the per-event records to the output store.

Example: gwsiren simulate --config run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "run.yaml", "Run configuration file")

	return cmd
}

func runSimulate(cmd *cobra.Command, configPath string) error {
	appCfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	run, err := config.LoadRun(configPath)
	if err != nil {
		return err
	}

	scale, err := cosmology.NewDistanceScale(run.OmegaM, run.ZHorizon)
	if err != nil {
		return err
	}
	pop, err := buildPopulation(run)
	if err != nil {
		return err
	}
	form, err := selection.ParseForm(run.Selection.Form)
	if err != nil {
		return err
	}
	sel, err := selection.New(form, run.Selection.Threshold, run.Selection.Width)
	if err != nil {
		return err
	}
	gen, err := simulate.NewGenerator(pop, sel, scale, simulate.GeneratorConfig{
		InjectionH0:        run.InjectionH0,
		SigmaFrac:          run.SigmaFrac,
		LocalizationRadius: run.LocalizationRadius,
		MaxRetries:         run.MaxRetries,
	})
	if err != nil {
		return err
	}

	policy, err := inference.ParsePolicy(run.Policy)
	if err != nil {
		return err
	}
	like := inference.NewLikelihoodEngine(pop, sel, scale, inference.LikelihoodConfig{
		Policy:      policy,
		OmitMissing: run.OmitMissing,
	})
	post := inference.NewPosteriorEngine(like, nil)

	grid, err := posterior.NewH0Grid(run.Grid.Min, run.Grid.Max, run.Grid.Points)
	if err != nil {
		return err
	}

	recStore, err := openStore(run.Output.Format, resolvePath(appCfg.DataDir, run.Output.Path))
	if err != nil {
		return err
	}
	defer recStore.Close()

	svc := app.NewBatchService(gen, post, rng.NewSeededAdapter(), recStore, grid, log)
	summary, err := svc.Run(cmd.Context(), app.BatchConfig{
		RunID:   core.RunID(core.NewID()),
		Events:  run.Events,
		Workers: run.Workers,
		Seed:    run.Seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d/%d events saved (%d generation failures, %d degenerate) in %s\n",
		summary.RunID, summary.Saved, summary.Requested,
		summary.GenerationFailures, summary.Degenerate, summary.Elapsed.Round(time.Millisecond))
	return nil
}

// buildPopulation selects the host population: a line-of-sight catalog read
// from xlsx when one is configured, the synthetic comoving-volume population
// otherwise. The synthetic population also backs the catalog's uncatalogued
// mass.
func buildPopulation(run *config.Run) (ports.HostPopulation, error) {
	background, err := catalog.NewSyntheticUniformCatalog(run.OmegaM, run.ZHorizon)
	if err != nil {
		return nil, err
	}
	if run.Catalog.Path == "" {
		return background, nil
	}
	galaxies, err := excel.NewCatalogReader(run.Catalog.Path, run.Catalog.Sheet).Read()
	if err != nil {
		return nil, err
	}
	return catalog.NewLineOfSightCatalog(galaxies, run.ZHorizon, background)
}

func openStore(format, path string) (ports.RecordStore, error) {
	if format == "sqlite" {
		return store.NewSQLiteStore(path)
	}
	return store.NewJSONLStore(path)
}

func resolvePath(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
