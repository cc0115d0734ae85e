// Package demand generates a year of synthetic one-minute electricity demand for a dwelling from
// its occupants, lighting and appliances.
package demand

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/demand/appliance"
	"github.com/synaptecltd/demand/lighting"
	"github.com/synaptecltd/demand/occupancy"
	"github.com/synaptecltd/demand/series"
)

// Dwelling describes one household to simulate.
type Dwelling struct {
	ID             uuid.UUID
	Name           string
	Occupants      int       // residents, 1 to 5
	StartDayOfWeek int       // day of week of 1 January, 1 (Sunday) to 7
	Bulbs          []float64 // W

	Lighting                   lighting.Params
	Appliances                 []*appliance.Definition
	ApplianceCalibrationScalar float64 // scales every appliance's cycles per year
}

// ReferenceData is the survey data shared read-only by every dwelling.
type ReferenceData struct {
	Occupancy  *occupancy.Data
	Activities appliance.ActivityStatistics
	Irradiance []float64 // W/m2 for each minute of the year
}

// Result is a year of demand for one dwelling.
type Result struct {
	ID           uuid.UUID
	Name         string
	Occupancy    series.Occupancy
	Lighting     series.Power            // kW
	Appliances   series.Power            // W
	Combined     series.Power            // W, appliances plus lighting
	PerAppliance map[string]series.Power // W, keyed by definition name
	Warnings     series.Warnings
}

// Returns a dwelling with a new ID, the default lighting calibration and an appliance calibration scalar of 1.
func NewDwelling(name string, occupants int) *Dwelling {
	return &Dwelling{
		ID:                         uuid.New(),
		Name:                       name,
		Occupants:                  occupants,
		StartDayOfWeek:             series.Sunday,
		Lighting:                   lighting.DefaultParams(),
		ApplianceCalibrationScalar: 1,
	}
}

// Generate simulates the dwelling for a year, drawing every random number from r. A fatal error
// aborts the whole dwelling and no partial result is returned.
func (d *Dwelling) Generate(r *rand.Rand, ref *ReferenceData) (*Result, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: no reference data", series.ErrData)
	}
	if len(ref.Irradiance) < series.MinutesPerYear {
		return nil, fmt.Errorf("%w: irradiance has %d values, expected at least %d", series.ErrData, len(ref.Irradiance), series.MinutesPerYear)
	}
	irradiance := ref.Irradiance[:series.MinutesPerYear]

	res := &Result{
		ID:           d.ID,
		Name:         d.Name,
		Appliances:   series.NewPower(),
		PerAppliance: make(map[string]series.Power, len(d.Appliances)),
	}

	occ, warnings, err := occupancy.Generate(r, ref.Occupancy, d.Occupants, d.StartDayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("occupancy: %w", err)
	}
	res.Occupancy = occ
	res.Warnings.Append(warnings)

	res.Lighting, err = lighting.Generate(r, irradiance, d.Bulbs, d.Lighting, occ)
	if err != nil {
		return nil, fmt.Errorf("lighting: %w", err)
	}

	activeFraction := occupancy.MeanActiveFraction(occ)
	for _, def := range d.Appliances {
		power, warnings, err := d.generateAppliance(r, def, occ, activeFraction, ref.Activities)
		if err != nil {
			return nil, fmt.Errorf("appliance %s: %w", def.Name, err)
		}
		res.Warnings.Append(warnings)

		if err := res.Appliances.Add(power, 1); err != nil {
			return nil, err
		}
		if existing, ok := res.PerAppliance[def.Name]; ok {
			if err := existing.Add(power, 1); err != nil {
				return nil, err
			}
		} else {
			res.PerAppliance[def.Name] = power
		}
	}

	res.Combined = series.NewPower()
	if err := res.Combined.Add(res.Appliances, 1); err != nil {
		return nil, err
	}
	if err := res.Combined.Add(res.Lighting, 1000); err != nil {
		return nil, err
	}

	return res, nil
}

func (d *Dwelling) generateAppliance(r *rand.Rand, def *appliance.Definition, occ series.Occupancy, activeFraction float64, stats appliance.ActivityStatistics) (series.Power, series.Warnings, error) {
	if def == nil {
		return nil, nil, fmt.Errorf("%w: nil appliance definition", series.ErrConfiguration)
	}
	if def.Kind() == appliance.Cold {
		return appliance.GenerateCold(r, def.AnnualEnergy(), def.CyclesPerYear, def.MeanCycleLength(), def.RestartDelay())
	}
	return appliance.Generate(r, occ, activeFraction, def, stats, d.ApplianceCalibrationScalar, d.StartDayOfWeek)
}
