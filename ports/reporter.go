package ports

import (
	"context"

	"gwsiren/domain/calibration"
)

// CalibrationReport aggregates the diagnostics computed over a set of
// per-event records.
type CalibrationReport struct {
	Summary     calibration.Summary
	KSCritical  float64 // rejection threshold the KS statistic is compared to
	Curve       calibration.PPCurve
	Convergence []calibration.ConvergencePoint
	Skipped     int // records that could not be scored (degenerate densities)
}

// ReportWriter renders a calibration report to an external format.
type ReportWriter interface {
	WriteCalibrationReport(ctx context.Context, report CalibrationReport) error
}
