// Package dataprocessing reads ship-unloading workbooks and derives the
// secondary metrics of each operation.
//
// ReadWorkbook loads the source Excel file into an UnloadingReport: headers
// are trimmed, timestamp and numeric columns are parsed tolerantly, and the
// original cells are kept verbatim for passthrough.
//
// Derive appends the six computed columns to every record: loaded volume,
// estimated water weight, the two elapsed durations, and the two net-weight
// corrections. Rows are independent; a value missing on one row leaves only
// that row's derived values blank. A column that a formula needs while the
// formula's other operand columns are present is a schema error and aborts
// the run before anything is written.
package dataprocessing
