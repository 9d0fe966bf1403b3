package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gwsiren/internal/config"
	"gwsiren/internal/logging"

	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment itself still applies.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gwsiren",
		Short: "Standard-siren H0 inference: simulate event batches and score their calibration",
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newCalibrateCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads application settings and builds the shared logger.
func setup() (*config.App, *zap.Logger, error) {
	appCfg, err := config.LoadApp()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(appCfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return appCfg, log, nil
}
