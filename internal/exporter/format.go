package exporter

import (
	"fmt"
	"time"
)

// numberFormat is the display format applied to the computed weight columns:
// thousands separator, exactly two decimals.
const numberFormat = "#,##0.00"

// widthPadding is added to the widest rendered value of each column.
const widthPadding = 2

// formatDuration renders a time span as H:MM:SS for the two duration
// columns. Spans can exceed 24 hours, so hours are not wrapped.
func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Round(time.Second)

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}
