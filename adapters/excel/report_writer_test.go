package excel

import (
	"path/filepath"
	"testing"

	"gouq/domain/core"
	"gouq/domain/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSummary() *study.StudySummary {
	return &study.StudySummary{
		StudyID:   "study-1",
		RunTitle:  "demo",
		Seed:      2,
		Successes: 4,
		Failures:  1,
		Failed:    []study.SampleFailure{{Index: 3, Reason: "solver diverged"}},
		Outputs: []study.OutputStats{
			{Output: "rmajor", Mean: 8.4, StdDev: 0.3, Min: 8.0, Max: 8.9, Median: 8.4, Count: 4},
			{Output: "pnetelmw", Mean: 500, Count: 1, InsufficientData: true},
		},
		FigureOfMerit: &study.FigureOfMeritDelta{
			Output: "rmajor", ObservedMean: 8.4, ReferenceMean: 8.0, Delta: 0.05,
		},
		Sobol: []study.SobolIndex{
			{Variable: "a", Output: "rmajor", FirstOrder: 0.7, TotalOrder: 0.8},
		},
		Morris: []study.MorrisEffect{
			{Variable: "a", Output: "rmajor", Mean: 3, MeanAbs: 3, StdDev: 0.1},
		},
		CreatedAt: core.Now(),
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewReportWriter().Write(sampleSummary(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Statistics")
	assert.Contains(t, sheets, "Sobol")
	assert.Contains(t, sheets, "Morris")
	assert.Contains(t, sheets, "Failures")

	mean, err := f.GetCellValue("Statistics", "B2")
	require.NoError(t, err)
	assert.Equal(t, "8.4", mean)

	// Undefined std must be marked, not rendered as zero
	std, err := f.GetCellValue("Statistics", "C3")
	require.NoError(t, err)
	assert.Equal(t, "insufficient data", std)

	reason, err := f.GetCellValue("Failures", "B2")
	require.NoError(t, err)
	assert.Equal(t, "solver diverged", reason)
}

func TestWriteWorkbookSkipsEmptyTables(t *testing.T) {
	summary := sampleSummary()
	summary.Sobol = nil
	summary.Morris = nil
	summary.Failed = nil

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewReportWriter().Write(summary, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Statistics"}, sheets)
}
