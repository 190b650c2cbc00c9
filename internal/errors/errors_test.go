package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("Volume initial", "Volume chargé (m³)")

	assert.Contains(t, err.Error(), "Volume initial")
	assert.Contains(t, err.Error(), "Volume chargé (m³)")
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsIOFailure(err))
}

func TestSchemaError_Wrapped(t *testing.T) {
	err := fmt.Errorf("derive: %w", NewSchemaError("Poids sortie (kg)", "Poids net Calculé (kg)"))

	assert.True(t, IsSchemaError(err))
}

func TestIOFailure(t *testing.T) {
	cause := fs.ErrPermission
	err := NewIOFailure("/out/report_resultats.xlsx", PhaseFormat, cause)

	assert.Contains(t, err.Error(), "number-format")
	assert.Contains(t, err.Error(), "report_resultats.xlsx")
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.True(t, IsIOFailure(err))
	assert.False(t, IsSchemaError(err))
}
