package domain

import (
	"time"
)

// Column names expected in the source workbook. Headers are matched after
// trimming surrounding whitespace.
const (
	ColWeighingStart  = "Date heure 1ère pesée"
	ColWeighingEnd    = "Date heure 2ème pesée"
	ColUnloadingStart = "Date début déchargement"
	ColUnloadingEnd   = "Date fin déchargement"

	ColVolumeInitial = "Volume initial"
	ColVolumeFinal   = "Volume final"

	ColWeightIn  = "Poids entrée (kg)"
	ColWeightOut = "Poids sortie (kg)"

	// ColWaterWeight is the measured water weight. The column is optional;
	// when absent the measured net weight cannot be derived.
	ColWaterWeight = "Poids eau (kg)"
)

// Column names appended by the deriver.
const (
	ColVolumeLoaded       = "Volume chargé (m³)"
	ColWaterWeightEst     = "Poids eau Calculé (kg)"
	ColOperationDuration  = "Durée opération"
	ColProcessingDuration = "Temps traitement"
	ColNetWeight          = "Poids net Calculé (kg)"
	ColNetWeightEst       = "Poids net Recalculé (kg)"
)

// DerivedColumns lists the appended columns in output order.
var DerivedColumns = []string{
	ColVolumeLoaded,
	ColWaterWeightEst,
	ColOperationDuration,
	ColProcessingDuration,
	ColNetWeight,
	ColNetWeightEst,
}

// FormattedColumns lists the columns that carry the "#,##0.00" display
// format in the exported workbook.
var FormattedColumns = []string{
	ColWaterWeightEst,
	ColNetWeight,
	ColNetWeightEst,
}

// UnloadingRecord represents a single ship-unloading operation: one row of
// the source workbook plus the metrics derived from it. Pointer fields model
// values that are blank in the source or could not be derived.
type UnloadingRecord struct {
	// Raw attributes parsed from the source row.
	WeighingStart  *time.Time `json:"weighing_start,omitempty"`
	WeighingEnd    *time.Time `json:"weighing_end,omitempty"`
	UnloadingStart *time.Time `json:"unloading_start,omitempty"`
	UnloadingEnd   *time.Time `json:"unloading_end,omitempty"`

	VolumeInitial *float64 `json:"volume_initial,omitempty"`
	VolumeFinal   *float64 `json:"volume_final,omitempty"`
	WeightIn      *float64 `json:"weight_in,omitempty"`
	WeightOut     *float64 `json:"weight_out,omitempty"`
	WaterWeight   *float64 `json:"water_weight,omitempty"`

	// Derived attributes, populated by the deriver. Rounded to 2 decimal
	// places except for the two durations.
	VolumeLoaded       *float64       `json:"volume_loaded,omitempty"`
	WaterWeightEst     *float64       `json:"water_weight_est,omitempty"`
	OperationDuration  *time.Duration `json:"operation_duration,omitempty"`
	ProcessingDuration *time.Duration `json:"processing_duration,omitempty"`
	NetWeight          *float64       `json:"net_weight,omitempty"`
	NetWeightEst       *float64       `json:"net_weight_est,omitempty"`

	// Cells holds the original row verbatim so unrecognized columns pass
	// through to the output unchanged.
	Cells []string `json:"-"`
}

// UnloadingReport is the in-memory form of one source workbook.
type UnloadingReport struct {
	SourceFile string            `json:"source_file"`
	Header     []string          `json:"header"`
	Columns    map[string]int    `json:"-"`
	Records    []UnloadingRecord `json:"records"`
}

// HasColumn reports whether the source workbook carried the named column.
func (r *UnloadingReport) HasColumn(name string) bool {
	_, ok := r.Columns[name]
	return ok
}

// Cell returns the raw cell text of the named column for the given record,
// or "" when the column is absent or the row is short.
func (r *UnloadingReport) Cell(rec *UnloadingRecord, name string) string {
	idx, ok := r.Columns[name]
	if !ok || idx >= len(rec.Cells) {
		return ""
	}
	return rec.Cells[idx]
}
