package demand

import (
	"github.com/synaptecltd/demand/occupancy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const minutesPerHour = 60

// Summary holds annual totals for a Result.
type Summary struct {
	LightingEnergy  float64 // kWh
	ApplianceEnergy float64 // kWh
	TotalEnergy     float64 // kWh
	PeakPower       float64 // W, combined
	MeanPower       float64 // W, combined
	ActiveFraction  float64 // fraction of minutes with at least one active occupant
}

// Summarise returns the annual totals of a result.
func Summarise(res *Result) Summary {
	var s Summary
	if res == nil {
		return s
	}

	s.LightingEnergy = floats.Sum(res.Lighting) / minutesPerHour
	s.ApplianceEnergy = floats.Sum(res.Appliances) / minutesPerHour / 1000
	s.TotalEnergy = floats.Sum(res.Combined) / minutesPerHour / 1000
	if len(res.Combined) > 0 {
		s.PeakPower = floats.Max(res.Combined)
		s.MeanPower = stat.Mean(res.Combined, nil)
	}

	s.ActiveFraction = occupancy.MeanActiveFraction(res.Occupancy)
	return s
}
