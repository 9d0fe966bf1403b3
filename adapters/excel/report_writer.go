package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"gwsiren/internal/errors"
	"gwsiren/ports"
)

// ReportWriter renders a calibration report into an xlsx workbook with three
// sheets: Summary, Percentiles (the PP curve) and Convergence.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting the given workbook path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

var _ ports.ReportWriter = (*ReportWriter)(nil)

// WriteCalibrationReport writes all sheets and saves the workbook.
func (w *ReportWriter) WriteCalibrationReport(_ context.Context, report ports.CalibrationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummary(f, report); err != nil {
		return err
	}
	if err := w.writePercentiles(f, report); err != nil {
		return err
	}
	if err := w.writeConvergence(f, report); err != nil {
		return err
	}

	// The default sheet was renamed to Summary; keep it active.
	if idx, err := f.GetSheetIndex("Summary"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(w.path); err != nil {
		return errors.ReportError("failed to save report workbook", err)
	}
	return nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, report ports.CalibrationReport) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.ReportError("failed to name summary sheet", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Events scored", report.Summary.Count},
		{"Events skipped", report.Skipped},
		{"Percentile mean", report.Summary.Mean},
		{"Percentile median", report.Summary.Median},
		{"KS statistic", report.Summary.KS},
		{"KS critical (5%)", report.KSCritical},
		{"Calibrated", report.Summary.KS < report.KSCritical},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.ReportError("failed to address summary cell", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.ReportError("failed to write summary row", err)
		}
	}
	return nil
}

func (w *ReportWriter) writePercentiles(f *excelize.File, report ports.CalibrationReport) error {
	const sheet = "Percentiles"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.ReportError("failed to create percentiles sheet", err)
	}

	header := []interface{}{"Nominal", "Empirical"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.ReportError("failed to write percentiles header", err)
	}
	for i := range report.Curve.Nominal {
		row := []interface{}{report.Curve.Nominal[i], report.Curve.Empirical[i]}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return errors.ReportError("failed to write percentiles row", err)
		}
	}
	return nil
}

func (w *ReportWriter) writeConvergence(f *excelize.File, report ports.CalibrationReport) error {
	const sheet = "Convergence"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.ReportError("failed to create convergence sheet", err)
	}

	header := []interface{}{"Events combined", "68% width", "Mode"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.ReportError("failed to write convergence header", err)
	}
	for i, pt := range report.Convergence {
		row := []interface{}{pt.K, pt.Width68, pt.Mode}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return errors.ReportError("failed to write convergence row", err)
		}
	}
	return nil
}
