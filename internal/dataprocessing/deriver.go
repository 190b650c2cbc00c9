package dataprocessing

import (
	"log/slog"
	"math"

	apperrors "unloadcli/internal/errors"
	"unloadcli/pkg/contracts/domain"
)

// Correction factors applied by the net-weight formulas.
const (
	// waterContentFactor converts loaded volume into an estimated water
	// weight (6.6% volumetric water-content assumption).
	waterContentFactor = 1.066
	// lossFactor is the fixed 7% processing-loss correction.
	lossFactor = 0.93
)

// formula ties a derived column to the raw columns it reads. optional marks
// columns whose absence is tolerated instead of raising a schema error.
type formula struct {
	derived  string
	operands []string
	optional map[string]bool
}

var formulas = []formula{
	{derived: domain.ColVolumeLoaded, operands: []string{domain.ColVolumeInitial, domain.ColVolumeFinal}},
	{derived: domain.ColWaterWeightEst, operands: []string{domain.ColVolumeInitial, domain.ColVolumeFinal}},
	{derived: domain.ColOperationDuration, operands: []string{domain.ColUnloadingStart, domain.ColUnloadingEnd}},
	{derived: domain.ColProcessingDuration, operands: []string{domain.ColWeighingStart, domain.ColWeighingEnd}},
	{
		derived:  domain.ColNetWeight,
		operands: []string{domain.ColWeightIn, domain.ColWeightOut, domain.ColWaterWeight},
		// The measured water weight is documented as optional in the
		// source template; without it the measured net weight simply
		// stays blank.
		optional: map[string]bool{domain.ColWaterWeight: true},
	},
	{
		derived:  domain.ColNetWeightEst,
		operands: []string{domain.ColWeightIn, domain.ColWeightOut, domain.ColVolumeInitial, domain.ColVolumeFinal},
	},
}

// Derive appends the six computed columns to every record of the report.
// It fails with a SchemaError before touching any record when a formula can
// only be evaluated partially.
func Derive(report *domain.UnloadingReport) error {
	if err := checkSchema(report); err != nil {
		return err
	}

	for i := range report.Records {
		deriveRecord(&report.Records[i])
	}

	slog.Debug("Derivation complete",
		slog.String("file", report.SourceFile),
		slog.Int("rows", len(report.Records)))

	return nil
}

// checkSchema rejects inputs where a formula has some operand columns but
// not all of them. A formula whose operands are all absent is skipped
// silently; its derived column stays blank on every row.
func checkSchema(report *domain.UnloadingReport) error {
	for _, f := range formulas {
		var present, missing []string
		for _, col := range f.operands {
			switch {
			case report.HasColumn(col):
				present = append(present, col)
			case f.optional[col]:
				// Tolerated; never forces an abort.
			default:
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 && len(present) > 0 {
			return apperrors.NewSchemaError(missing[0], f.derived)
		}
	}
	return nil
}

// deriveRecord computes every derived value the record's raw fields allow.
// Each result is rounded once, after the whole expression: the estimated
// water weight reads the already rounded loaded volume.
func deriveRecord(rec *domain.UnloadingRecord) {
	if rec.VolumeInitial != nil && rec.VolumeFinal != nil {
		v := round2(*rec.VolumeFinal - *rec.VolumeInitial)
		rec.VolumeLoaded = &v

		w := round2(v * waterContentFactor)
		rec.WaterWeightEst = &w
	}

	if rec.UnloadingStart != nil && rec.UnloadingEnd != nil {
		d := rec.UnloadingEnd.Sub(*rec.UnloadingStart)
		rec.OperationDuration = &d
	}
	if rec.WeighingStart != nil && rec.WeighingEnd != nil {
		d := rec.WeighingEnd.Sub(*rec.WeighingStart)
		rec.ProcessingDuration = &d
	}

	if rec.WeightIn != nil && rec.WeightOut != nil && rec.WaterWeight != nil {
		n := round2((*rec.WeightOut - *rec.WeightIn - *rec.WaterWeight) * lossFactor)
		rec.NetWeight = &n
	}
	if rec.WeightIn != nil && rec.WeightOut != nil && rec.WaterWeightEst != nil {
		n := round2((*rec.WeightOut - *rec.WeightIn - *rec.WaterWeightEst) * lossFactor)
		rec.NetWeightEst = &n
	}
}

// round2 rounds half away from zero at 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
