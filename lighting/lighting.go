// Package lighting simulates the aggregate lighting demand of a dwelling from its active occupancy,
// outdoor irradiance and the stochastic switch-on behaviour of each bulb.
package lighting

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/synaptecltd/demand/mathfuncs"
	"github.com/synaptecltd/demand/series"
)

// Default calibration, from the published domestic lighting model.
const (
	DefaultCalibrationScalar = 0.00815368639667705
	DefaultThresholdMean     = 60.0 // W/m2
	DefaultThresholdStdDev   = 10.0 // W/m2

	overrideProbability = 0.05  // chance occupants switch on regardless of daylight
	minUniform          = 1e-20 // avoids log(0) when weighting bulbs
)

// Params configures the lighting model for one dwelling.
type Params struct {
	CalibrationScalar float64 `yaml:"calibrationScalar" mapstructure:"calibrationScalar"` // scales each bulb's relative use
	ThresholdMean     float64 `yaml:"thresholdMean" mapstructure:"thresholdMean"`         // mean irradiance below which lights are wanted
	ThresholdStdDev   float64 `yaml:"thresholdStdDev" mapstructure:"thresholdStdDev"`     // spread of that threshold between dwellings
}

// DefaultParams returns the published calibration.
func DefaultParams() Params {
	return Params{
		CalibrationScalar: DefaultCalibrationScalar,
		ThresholdMean:     DefaultThresholdMean,
		ThresholdStdDev:   DefaultThresholdStdDev,
	}
}

// effectiveOccupancy accounts for light sharing between active occupants.
var effectiveOccupancy = []float64{0, 1, 1.528, 1.694, 1.983, 2.094}

// EffectiveOccupancy returns the effective number of occupants wanting light given the number active.
func EffectiveOccupancy(activeOccupants int) (float64, error) {
	if activeOccupants < 0 || activeOccupants >= len(effectiveOccupancy) {
		return 0, fmt.Errorf("%w: no effective occupancy for %d active occupants", series.ErrData, activeOccupants)
	}
	return effectiveOccupancy[activeOccupants], nil
}

// Generate returns the lighting demand in kW for each minute of the year. bulbs holds the rated
// power of each bulb in watts.
func Generate(r *rand.Rand, irradiance []float64, bulbs []float64, params Params, occ series.Occupancy) (series.Power, error) {
	if err := series.CheckLength("irradiance", len(irradiance)); err != nil {
		return nil, err
	}
	if err := series.CheckLength("occupancy", len(occ)); err != nil {
		return nil, err
	}

	threshold := mathfuncs.RandomVariate(r, params.ThresholdMean, params.ThresholdStdDev)
	out := series.NewPower()

	for _, watts := range bulbs {
		if err := simulateBulb(r, out, watts/1000, threshold, params.CalibrationScalar, irradiance, occ); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// simulateBulb adds the demand of a single bulb of the given rating (kW) to out.
func simulateBulb(r *rand.Rand, out series.Power, kw, threshold, calibrationScalar float64, irradiance []float64, occ series.Occupancy) error {
	weight := -calibrationScalar * math.Log(math.Max(r.Float64(), minUniform))

	for t := 0; t < len(out); {
		active := occ[t]
		if active == 0 {
			t++
			continue
		}

		override := r.Float64() < overrideProbability
		lowIrradiance := irradiance[t] < threshold || override

		effective, err := EffectiveOccupancy(active)
		if err != nil {
			return fmt.Errorf("minute %d: %w", t, err)
		}

		if !lowIrradiance || r.Float64() >= effective*weight {
			t++
			continue
		}

		// switched on: stays on for the sampled duration or until nobody is active
		duration := SampleDuration(r)
		for j := 0; j < duration && t < len(out); j++ {
			if occ[t] == 0 {
				break
			}
			out[t] += kw
			t++
		}
	}
	return nil
}
