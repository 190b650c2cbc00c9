// Package exporter writes the enriched unloading report back out as a
// formatted workbook.
//
// Export runs three sequential file transactions against the same artifact:
// the write phase serializes the table, the number-format phase applies the
// "#,##0.00" display format to the three computed weight columns, and the
// width phase sizes every column to its widest rendered value plus padding.
// Each phase opens, mutates and saves the file on its own, so a failure in a
// later phase leaves a valid workbook from the phases before it.
package exporter
