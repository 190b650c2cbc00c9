package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"unloadcli/pkg/contracts/domain"
)

// timestampLayouts are tried in order when parsing the four date-time
// columns. Excel renders dates differently depending on the cell format, so
// both ISO and the short m/d/yy forms excelize produces are covered.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"2006-01-02",
	"02/01/2006",
}

// ReadWorkbook reads a source workbook and returns its rows as an
// UnloadingReport. The first sheet is used; row 1 is the header.
func ReadWorkbook(filePath string) (*domain.UnloadingReport, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row", filePath)
	}

	// Trim surrounding whitespace from headers and map names to positions.
	header := make([]string, len(rows[0]))
	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		trimmed := strings.TrimSpace(name)
		header[i] = trimmed
		if trimmed == "" {
			continue
		}
		if _, exists := columns[trimmed]; !exists {
			columns[trimmed] = i
		}
	}

	report := &domain.UnloadingReport{
		SourceFile: filePath,
		Header:     header,
		Columns:    columns,
	}

	for _, row := range rows[1:] {
		// Pad short rows so passthrough indexing stays aligned with the
		// header.
		cells := make([]string, len(header))
		copy(cells, row)

		rec := domain.UnloadingRecord{Cells: cells}

		rec.WeighingStart = parseTimestamp(cellAt(cells, columns, domain.ColWeighingStart))
		rec.WeighingEnd = parseTimestamp(cellAt(cells, columns, domain.ColWeighingEnd))
		rec.UnloadingStart = parseTimestamp(cellAt(cells, columns, domain.ColUnloadingStart))
		rec.UnloadingEnd = parseTimestamp(cellAt(cells, columns, domain.ColUnloadingEnd))

		rec.VolumeInitial = parseNumber(cellAt(cells, columns, domain.ColVolumeInitial))
		rec.VolumeFinal = parseNumber(cellAt(cells, columns, domain.ColVolumeFinal))
		rec.WeightIn = parseNumber(cellAt(cells, columns, domain.ColWeightIn))
		rec.WeightOut = parseNumber(cellAt(cells, columns, domain.ColWeightOut))
		rec.WaterWeight = parseNumber(cellAt(cells, columns, domain.ColWaterWeight))

		report.Records = append(report.Records, rec)
	}

	slog.Debug("Workbook loaded",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("columns", len(header)),
		slog.Int("rows", len(report.Records)))
	logPreview(report)

	return report, nil
}

// logPreview logs the first rows of the report at debug level.
func logPreview(report *domain.UnloadingReport) {
	const previewRows = 5
	for i, rec := range report.Records {
		if i >= previewRows {
			break
		}
		slog.Debug("Row preview", slog.Int("row", i+1), slog.Any("cells", rec.Cells))
	}
}

// cellAt returns the raw cell of the named column, or "" when absent.
func cellAt(cells []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// parseTimestamp parses a rendered date-time cell. Unparseable values yield
// nil rather than an error; the affected durations stay blank for that row.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseNumber parses a rendered numeric cell, tolerating thousands
// separators and the non-breaking spaces French locales group digits with.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
