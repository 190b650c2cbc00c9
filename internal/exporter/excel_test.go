package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "unloadcli/internal/errors"
	"unloadcli/pkg/contracts/domain"
)

func fp(v float64) *float64 { return &v }

func dp(d time.Duration) *time.Duration { return &d }

// sampleReport builds an enriched report with one fully derived row and one
// large-value row that exercises the thousands separator.
func sampleReport() *domain.UnloadingReport {
	header := []string{
		domain.ColVolumeInitial,
		domain.ColVolumeFinal,
		domain.ColWeightIn,
		domain.ColWeightOut,
		domain.ColWaterWeight,
		"NavireNavire", // 12 runes; passthrough column for the width check
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	return &domain.UnloadingReport{
		SourceFile: "cargo.xlsx",
		Header:     header,
		Columns:    columns,
		Records: []domain.UnloadingRecord{
			{
				VolumeInitial:     fp(100.0),
				VolumeFinal:       fp(150.0),
				WeightIn:          fp(5000.0),
				WeightOut:         fp(5200.0),
				WaterWeight:       fp(45.0),
				VolumeLoaded:      fp(50.0),
				WaterWeightEst:    fp(53.3),
				OperationDuration: dp(3*time.Hour + 30*time.Minute),
				NetWeight:         fp(144.15),
				NetWeightEst:      fp(136.43),
				Cells:             []string{"100", "150", "5000", "5200", "45", "12345678"},
			},
			{
				WeightIn:  fp(0.0),
				WeightOut: fp(10000000.0),
				NetWeight: fp(9300000.0),
				Cells:     []string{"", "", "0", "10000000", "0", ""},
			},
		},
	}
}

func TestResultPath(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"/data/Excel/cargo.xlsx", "cargo_resultats.xlsx"},
		{"pesées.xls", "pesées_resultats.xls"},
		{"noext", "noext_resultats.xlsx"},
	}

	for _, tt := range tests {
		got := ResultPath(tt.source, "/out")
		assert.Equal(t, filepath.Join("/out", tt.want), got)
	}
}

func TestExport_WritesWorkbook(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Data_Analysis", "2026-08-24")

	path, err := NewResultExporter().Export(sampleReport(), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "cargo_resultats.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Header: original columns in order, derived columns appended.
	wantHeader := append([]string{
		domain.ColVolumeInitial, domain.ColVolumeFinal,
		domain.ColWeightIn, domain.ColWeightOut,
		domain.ColWaterWeight, "NavireNavire",
	}, domain.DerivedColumns...)
	assert.Equal(t, wantHeader, rows[0])

	// Derived values of the first data row.
	get := func(col string, row int) string {
		v, err := f.GetCellValue(sheetName, col+string(rune('0'+row)))
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "50", get("G", 2))       // Volume chargé (m³), unformatted
	assert.Equal(t, "53.30", get("H", 2))    // Poids eau Calculé (kg)
	assert.Equal(t, "3:30:00", get("I", 2))  // Durée opération
	assert.Equal(t, "", get("J", 2))         // Temps traitement left blank
	assert.Equal(t, "144.15", get("K", 2))   // Poids net Calculé (kg)
	assert.Equal(t, "136.43", get("L", 2))   // Poids net Recalculé (kg)

	// Thousands separator on the large value.
	assert.Equal(t, "9,300,000.00", get("K", 3))
}

// A column whose longest cell is 8 characters under a 12-character header
// ends up 14 wide.
func TestExport_ColumnWidths(t *testing.T) {
	outDir := t.TempDir()

	path, err := NewResultExporter().Export(sampleReport(), outDir)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth(sheetName, "F") // NavireNavire
	require.NoError(t, err)
	assert.Equal(t, 14.0, width)

	// The weight column is sized after formatting: its header (22 runes)
	// is wider than the rendered "9,300,000.00".
	width, err = f.GetColWidth(sheetName, "K")
	require.NoError(t, err)
	assert.Equal(t, 24.0, width)
}

// Exporting twice into the same directory overwrites the file with identical
// data values.
func TestExport_Idempotent(t *testing.T) {
	outDir := t.TempDir()
	exp := NewResultExporter()

	path, err := exp.Export(sampleReport(), outDir)
	require.NoError(t, err)
	first := readAllRows(t, path)

	path2, err := exp.Export(sampleReport(), outDir)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	assert.Equal(t, first, readAllRows(t, path))
}

func TestExport_HeaderOnlyReport(t *testing.T) {
	report := sampleReport()
	report.Records = nil

	path, err := NewResultExporter().Export(report, t.TempDir())
	require.NoError(t, err)

	rows := readAllRows(t, path)
	require.Len(t, rows, 1)
}

func TestExport_IOFailure(t *testing.T) {
	// A regular file where the output directory should be makes MkdirAll
	// fail in the write phase.
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	_, err := NewResultExporter().Export(sampleReport(), filepath.Join(blocked, "out"))
	require.Error(t, err)
	assert.True(t, apperrors.IsIOFailure(err))

	var ioErr *apperrors.IOFailure
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, apperrors.PhaseWrite, ioErr.Phase)
	assert.Contains(t, ioErr.Path, "cargo_resultats.xlsx")
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return rows
}
