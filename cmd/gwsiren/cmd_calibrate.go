package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gwsiren/app"
)

func newCalibrateCmd() *cobra.Command {
	var (
		recordsPath string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Score stored event records and print the calibration summary",
		Long: `Score every stored per-event posterior against its known true H0 and
print the calibration summary without writing a workbook. Use the report
command to also export the PP curve and convergence data.

Example: gwsiren calibrate --records events.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalibrate(cmd, recordsPath, format)
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "events.jsonl", "Event record store to score")
	cmd.Flags().StringVar(&format, "format", "jsonl", "Record store format (jsonl or sqlite)")

	return cmd
}

func runCalibrate(cmd *cobra.Command, recordsPath, format string) error {
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

	svc := app.NewCalibrationService(recStore, nil, log)
	report, err := svc.Report(cmd.Context())
	if err != nil {
		return err
	}

	verdict := "calibrated"
	if report.Summary.KS >= report.KSCritical {
		verdict = "NOT calibrated"
	}
	fmt.Printf("%d events scored (%d skipped)\n", report.Summary.Count, report.Skipped)
	fmt.Printf("percentile mean %.4f, median %.4f\n", report.Summary.Mean, report.Summary.Median)
	fmt.Printf("KS %.4f vs critical %.4f: %s\n", report.Summary.KS, report.KSCritical, verdict)
	if n := len(report.Convergence); n > 0 {
		last := report.Convergence[n-1]
		fmt.Printf("combined over %d events: mode %.2f, 68%% width %.2f\n", last.K, last.Mode, last.Width68)
	}
	return nil
}
