package errors

import (
	"errors"
	"fmt"
)

// SchemaError reports a source column that a derivation formula needs while
// the formula's other operands are present. Partial formulas are treated as
// an explicit failure rather than silently emitting zeros.
type SchemaError struct {
	Column  string `json:"column"`
	Formula string `json:"formula"`
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing column %q required by %s", e.Column, e.Formula)
}

// NewSchemaError creates a SchemaError for the given column and formula
func NewSchemaError(column, formula string) *SchemaError {
	return &SchemaError{Column: column, Formula: formula}
}

// IOFailure reports a failed file-touching phase of the export pipeline.
// Path and Phase identify where the failure happened; the cause is wrapped.
type IOFailure struct {
	Path  string `json:"path"`
	Phase string `json:"phase"`
	Err   error  `json:"-"`
}

// Error implements the error interface
func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *IOFailure) Unwrap() error {
	return e.Err
}

// NewIOFailure creates an IOFailure for the given path and phase
func NewIOFailure(path, phase string, err error) *IOFailure {
	return &IOFailure{Path: path, Phase: phase, Err: err}
}

// Export phase names carried by IOFailure
const (
	PhaseWrite  = "write"
	PhaseFormat = "number-format"
	PhaseResize = "column-width"
)

// IsSchemaError reports whether err is (or wraps) a SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsIOFailure reports whether err is (or wraps) an IOFailure
func IsIOFailure(err error) bool {
	var ioe *IOFailure
	return errors.As(err, &ioe)
}
