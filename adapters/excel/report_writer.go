package excel

import (
	"fmt"
	"log"

	"gouq/domain/study"

	"github.com/xuri/excelize/v2"
)

// ReportWriter exports a StudySummary as an Excel workbook: one sheet of
// per-output statistics, one per sensitivity table, one for failures.
type ReportWriter struct{}

// NewReportWriter creates a new Excel report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Write saves the workbook to filePath
func (w *ReportWriter) Write(summary *study.StudySummary, filePath string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[ExcelReport] close workbook: %v", err)
		}
	}()

	if err := w.writeStatistics(f, summary); err != nil {
		return err
	}
	if len(summary.Sobol) > 0 {
		if err := w.writeSobol(f, summary); err != nil {
			return err
		}
	}
	if len(summary.Morris) > 0 {
		if err := w.writeMorris(f, summary); err != nil {
			return err
		}
	}
	if len(summary.Failed) > 0 {
		if err := w.writeFailures(f, summary); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save study report: %w", err)
	}
	log.Printf("[ExcelReport] wrote %s", filePath)
	return nil
}

func (w *ReportWriter) writeStatistics(f *excelize.File, summary *study.StudySummary) error {
	const sheet = "Statistics"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := []interface{}{"Output", "Mean", "StdDev", "Min", "Max", "Median", "Count"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, o := range summary.Outputs {
		row := []interface{}{o.Output, o.Mean, stdCell(o), o.Min, o.Max, o.Median, o.Count}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	// Study header block to the right of the table
	meta := [][]interface{}{
		{"Run", summary.RunTitle},
		{"Study", summary.StudyID.String()},
		{"Seed", summary.Seed},
		{"Successes", summary.Successes},
		{"Failures", summary.Failures},
	}
	for i, row := range meta {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("I%d", i+1), &row); err != nil {
			return err
		}
	}

	if summary.FigureOfMerit != nil {
		fom := summary.FigureOfMerit
		row := []interface{}{"FigureOfMerit", fom.Output, fom.ObservedMean, fom.ReferenceMean, fom.Delta}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("I%d", len(meta)+1), &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeSobol(f *excelize.File, summary *study.StudySummary) error {
	const sheet = "Sobol"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Variable", "Output", "FirstOrder", "TotalOrder"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, idx := range summary.Sobol {
		row := []interface{}{idx.Variable, idx.Output, indexCell(idx.FirstOrder, idx.InsufficientData), indexCell(idx.TotalOrder, idx.InsufficientData)}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeMorris(f *excelize.File, summary *study.StudySummary) error {
	const sheet = "Morris"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Variable", "Output", "Mean", "MeanAbs", "StdDev"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, e := range summary.Morris {
		row := []interface{}{e.Variable, e.Output, indexCell(e.Mean, e.InsufficientData), indexCell(e.MeanAbs, e.InsufficientData), indexCell(e.StdDev, e.InsufficientData)}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeFailures(f *excelize.File, summary *study.StudySummary) error {
	const sheet = "Failures"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"SampleIndex", "Reason"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, fail := range summary.Failed {
		row := []interface{}{fail.Index, fail.Reason}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// stdCell renders the standard deviation, or the insufficient-data marker —
// never a misleading zero
func stdCell(o study.OutputStats) interface{} {
	if o.InsufficientData {
		return "insufficient data"
	}
	return o.StdDev
}

func indexCell(v float64, insufficient bool) interface{} {
	if insufficient {
		return "insufficient data"
	}
	return v
}
