package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gwsiren/adapters/excel"
	"gwsiren/app"
)

func newReportCmd() *cobra.Command {
	var (
		recordsPath string
		format      string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Score stored event records and write the calibration report",
		Long: `Score every stored per-event posterior against its known true H0 and
write the calibration workbook: summary statistics, the PP curve, and the
running-combination convergence diagnostic.

Example: gwsiren report --records events.jsonl --out calibration.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, recordsPath, format, outPath)
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "events.jsonl", "Event record store to score")
	cmd.Flags().StringVar(&format, "format", "jsonl", "Record store format (jsonl or sqlite)")
	cmd.Flags().StringVar(&outPath, "out", "calibration.xlsx", "Report workbook path")

	return cmd
}

func runReport(cmd *cobra.Command, recordsPath, format, outPath string) error {
	appCfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	recStore, err := openStore(format, resolvePath(appCfg.DataDir, recordsPath))
	if err != nil {
		return err
	}
	defer recStore.Close()

	svc := app.NewCalibrationService(recStore, excel.NewReportWriter(resolvePath(appCfg.DataDir, outPath)), log)
	report, err := svc.WriteReport(cmd.Context())
	if err != nil {
		return err
	}

	verdict := "calibrated"
	if report.Summary.KS >= report.KSCritical {
		verdict = "NOT calibrated"
	}
	fmt.Printf("%d events scored (%d skipped): KS %.4f vs critical %.4f, %s\n",
		report.Summary.Count, report.Skipped, report.Summary.KS, report.KSCritical, verdict)
	return nil
}
