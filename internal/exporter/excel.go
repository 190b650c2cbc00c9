package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "unloadcli/internal/errors"
	"unloadcli/pkg/contracts/domain"
)

// sheetName is the single sheet of the result workbook.
const sheetName = "Résultats"

// timestampColumns and numericColumns identify the source columns that are
// written back as typed cells instead of raw text.
var timestampColumns = map[string]bool{
	domain.ColWeighingStart:  true,
	domain.ColWeighingEnd:    true,
	domain.ColUnloadingStart: true,
	domain.ColUnloadingEnd:   true,
}

var numericColumns = map[string]bool{
	domain.ColVolumeInitial: true,
	domain.ColVolumeFinal:   true,
	domain.ColWeightIn:      true,
	domain.ColWeightOut:     true,
	domain.ColWaterWeight:   true,
}

// ResultExporter writes enriched reports to disk as formatted workbooks.
type ResultExporter struct{}

// NewResultExporter creates a new result exporter instance
func NewResultExporter() *ResultExporter {
	return &ResultExporter{}
}

// ResultPath returns the deterministic output path for a source file:
// <outputDir>/<stem>_resultats<ext>.
func ResultPath(sourceFile, outputDir string) string {
	base := filepath.Base(sourceFile)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".xlsx"
	}
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(outputDir, stem+"_resultats"+ext)
}

// Export writes the report under outputDir and returns the path of the
// written workbook. The three phases run strictly in order; each one is its
// own open-mutate-save transaction, and a failing phase leaves the output of
// the previous phases on disk.
func (e *ResultExporter) Export(report *domain.UnloadingReport, outputDir string) (string, error) {
	path := ResultPath(report.SourceFile, outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", apperrors.NewIOFailure(path, apperrors.PhaseWrite, err)
	}

	if err := e.writeWorkbook(path, report); err != nil {
		return "", apperrors.NewIOFailure(path, apperrors.PhaseWrite, err)
	}
	slog.Info("Result workbook written",
		slog.String("path", path),
		slog.Int("rows", len(report.Records)))

	if err := e.applyNumberFormat(path); err != nil {
		return "", apperrors.NewIOFailure(path, apperrors.PhaseFormat, err)
	}

	if err := e.autoFitColumns(path); err != nil {
		return "", apperrors.NewIOFailure(path, apperrors.PhaseResize, err)
	}

	return path, nil
}

// writeWorkbook serializes the enriched table: header row first, original
// columns in source order, derived columns appended, no index column.
func (e *ResultExporter) writeWorkbook(path string, report *domain.UnloadingReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]string, 0, len(report.Header)+len(domain.DerivedColumns))
	header = append(header, report.Header...)
	header = append(header, domain.DerivedColumns...)
	for j, name := range header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for i := range report.Records {
		rec := &report.Records[i]
		row := i + 2

		for j, name := range report.Header {
			if err := e.writeSourceCell(f, row, j+1, name, rec); err != nil {
				return err
			}
		}
		base := len(report.Header)
		if err := e.writeDerivedCells(f, row, base, rec); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSourceCell writes one original cell back, typed when it parsed and
// verbatim otherwise.
func (e *ResultExporter) writeSourceCell(f *excelize.File, row, col int, name string, rec *domain.UnloadingRecord) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	switch {
	case timestampColumns[name]:
		if t := timestampField(rec, name); t != nil {
			return f.SetCellValue(sheetName, cell, *t)
		}
	case numericColumns[name]:
		if v := numericField(rec, name); v != nil {
			return f.SetCellFloat(sheetName, cell, *v, -1, 64)
		}
	}

	raw := ""
	if col-1 < len(rec.Cells) {
		raw = rec.Cells[col-1]
	}
	if raw == "" {
		return nil
	}
	return f.SetCellValue(sheetName, cell, raw)
}

// writeDerivedCells appends the six derived values after the source columns.
// Blank derived values leave their cells empty.
func (e *ResultExporter) writeDerivedCells(f *excelize.File, row, base int, rec *domain.UnloadingRecord) error {
	floats := []struct {
		offset int
		value  *float64
	}{
		{0, rec.VolumeLoaded},
		{1, rec.WaterWeightEst},
		{4, rec.NetWeight},
		{5, rec.NetWeightEst},
	}
	for _, fv := range floats {
		if fv.value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(base+fv.offset+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellFloat(sheetName, cell, *fv.value, -1, 64); err != nil {
			return err
		}
	}

	durations := []struct {
		offset int
		value  *string
	}{
		{2, durationText(rec.OperationDuration)},
		{3, durationText(rec.ProcessingDuration)},
	}
	for _, dv := range durations {
		if dv.value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(base+dv.offset+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, *dv.value); err != nil {
			return err
		}
	}
	return nil
}

// applyNumberFormat re-opens the written workbook and applies the
// "#,##0.00" display format to every data cell of the three computed weight
// columns. Columns missing from the header row are skipped silently.
func (e *ResultExporter) applyNumberFormat(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to reopen workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil // header only, nothing to format
	}

	nf := numberFormat
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &nf})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for _, name := range domain.FormattedColumns {
		idx := headerIndex(rows[0], name)
		if idx < 0 {
			continue
		}
		colName, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		top := colName + "2"
		bottom := colName + strconv.Itoa(len(rows))
		if err := f.SetCellStyle(sheetName, top, bottom, styleID); err != nil {
			return fmt.Errorf("failed to style column %s: %w", name, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// autoFitColumns re-opens the workbook and sets every column's width to its
// widest rendered value, header included, plus a fixed padding. It runs
// after the format phase so widths are measured on formatted text.
func (e *ResultExporter) autoFitColumns(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to reopen workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			for j >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}

	for j, w := range widths {
		colName, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, colName, colName, float64(w+widthPadding)); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", colName, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// headerIndex finds a column by trimmed header name, -1 when absent.
func headerIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func timestampField(rec *domain.UnloadingRecord, name string) *time.Time {
	switch name {
	case domain.ColWeighingStart:
		return rec.WeighingStart
	case domain.ColWeighingEnd:
		return rec.WeighingEnd
	case domain.ColUnloadingStart:
		return rec.UnloadingStart
	case domain.ColUnloadingEnd:
		return rec.UnloadingEnd
	}
	return nil
}

func numericField(rec *domain.UnloadingRecord, name string) *float64 {
	switch name {
	case domain.ColVolumeInitial:
		return rec.VolumeInitial
	case domain.ColVolumeFinal:
		return rec.VolumeFinal
	case domain.ColWeightIn:
		return rec.WeightIn
	case domain.ColWeightOut:
		return rec.WeightOut
	case domain.ColWaterWeight:
		return rec.WaterWeight
	}
	return nil
}

func durationText(d *time.Duration) *string {
	if d == nil {
		return nil
	}
	s := formatDuration(*d)
	return &s
}
