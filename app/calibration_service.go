package app

import (
	"context"

	"go.uber.org/zap"

	"gwsiren/domain/calibration"
	"gwsiren/domain/core"
	"gwsiren/domain/posterior"
	"gwsiren/internal/errors"
	"gwsiren/ports"
)

// ksAlpha is the significance level of the calibration KS test.
const ksAlpha = 0.05

// CalibrationService scores stored per-event records: rebuilds each
// posterior, locates the true H0 percentile, and aggregates PP-plot, KS and
// convergence diagnostics. Records may come from any number of merged
// batches; the diagnostics are order-independent apart from the convergence
// curve, which follows store order.
type CalibrationService struct {
	store  ports.RecordStore
	writer ports.ReportWriter
	log    *zap.Logger
}

// NewCalibrationService wires a calibration service. The writer may be nil
// when only the in-memory report is wanted.
func NewCalibrationService(store ports.RecordStore, writer ports.ReportWriter, log *zap.Logger) *CalibrationService {
	return &CalibrationService{store: store, writer: writer, log: log}
}

// Report scores every stored record and assembles the calibration report.
// Records whose density cannot be rebuilt are skipped and counted.
func (s *CalibrationService) Report(ctx context.Context) (ports.CalibrationReport, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return ports.CalibrationReport{}, err
	}
	if len(records) == 0 {
		return ports.CalibrationReport{}, errors.InvalidInput("no event records to score")
	}

	scored := make([]calibration.Record, 0, len(records))
	posteriors := make([]posterior.H0Posterior, 0, len(records))
	skipped := 0
	for _, rec := range records {
		p, err := posterior.FromDensity(posterior.H0Grid{Values: rec.Grid}, rec.Density)
		if err != nil {
			skipped++
			s.log.Warn("skipping unreadable record",
				zap.String("event_id", rec.EventID.String()),
				zap.Error(err),
			)
			continue
		}
		scored = append(scored, calibration.NewRecord(rec.EventID, rec.TrueH0, rec.ObservedDistance, p))
		posteriors = append(posteriors, p)
	}
	if len(scored) == 0 {
		return ports.CalibrationReport{}, errors.InvalidInput("every record was unreadable")
	}

	summary, err := calibration.Summarize(scored)
	if err != nil {
		return ports.CalibrationReport{}, err
	}

	convergence, err := calibration.Convergence(posteriors)
	if core.IsNormalizationUnderflow(err) {
		// Conflicting batches can multiply to zero everywhere; the
		// per-event diagnostics are still valid without the running curve.
		s.log.Warn("running combination degenerated, omitting convergence curve")
		convergence = nil
	} else if err != nil {
		return ports.CalibrationReport{}, err
	}

	report := ports.CalibrationReport{
		Summary:     summary,
		KSCritical:  calibration.KSCriticalValue(summary.Count, ksAlpha),
		Curve:       calibration.PP(scored),
		Convergence: convergence,
		Skipped:     skipped,
	}
	s.log.Info("calibration scored",
		zap.Int("events", summary.Count),
		zap.Int("skipped", skipped),
		zap.Float64("ks", summary.KS),
		zap.Float64("ks_critical", report.KSCritical),
	)
	return report, nil
}

// WriteReport scores the records and renders the report through the
// configured writer.
func (s *CalibrationService) WriteReport(ctx context.Context) (ports.CalibrationReport, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return ports.CalibrationReport{}, err
	}
	if s.writer == nil {
		return report, errors.InvalidInput("no report writer configured")
	}
	if err := s.writer.WriteCalibrationReport(ctx, report); err != nil {
		return ports.CalibrationReport{}, err
	}
	return report, nil
}
