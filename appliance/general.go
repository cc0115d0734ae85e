package appliance

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/synaptecltd/demand/mathfuncs"
	"github.com/synaptecltd/demand/series"
)

// maxCycleQuantile clamps the uniform draw for geometric cycle lengths away from the singularity at 1.
const maxCycleQuantile = 0.995

// Appliance is one instance of a Definition in a dwelling, with its own drawn rated power and
// cycle state.
type Appliance struct {
	def                  *Definition
	ratedPower           float64 // W, drawn once per instance
	pausesWhenUnoccupied bool

	// internal state
	cycleLength      int // minutes in the current cycle
	cycleTimeLeft    int // minutes of the current cycle still to run
	restartDelayLeft int // minutes before the next cycle may start
}

// NewAppliance returns an idle appliance with a rated power drawn around the definition's and a
// random initial restart delay so that dwellings are not synchronised.
func NewAppliance(r *rand.Rand, def *Definition) *Appliance {
	return &Appliance{
		def:                  def,
		ratedPower:           mathfuncs.RandomVariate(r, def.RatedPower(), def.RatedPower()/10),
		pausesWhenUnoccupied: def.Profile().Pausable() && def.Kind() != Dishwasher,
		restartDelayLeft:     int(r.Float64() * 2 * float64(def.RestartDelay())),
	}
}

// Returns the rated power drawn for this instance in watts.
func (a *Appliance) RatedPower() float64 {
	return a.ratedPower
}

// Returns whether a cycle is in progress.
func (a *Appliance) IsRunning() bool {
	return a.cycleTimeLeft > 0
}

// Returns the minutes left in the current cycle.
func (a *Appliance) CycleTimeLeft() int {
	return a.cycleTimeLeft
}

// Returns the minutes before another cycle may start.
func (a *Appliance) RestartDelayLeft() int {
	return a.restartDelayLeft
}

// step advances the appliance one minute and returns its power in watts. startProbability is the
// chance an idle appliance switches on this minute.
func (a *Appliance) step(r *rand.Rand, activeOccupants int, startProbability float64) float64 {
	switch {
	case a.cycleTimeLeft > 0:
		if activeOccupants == 0 && a.pausesWhenUnoccupied {
			// resumes when someone is active again
			return a.def.StandbyPower
		}
		power := a.runningPower()
		a.cycleTimeLeft--
		return power
	case a.restartDelayLeft > 0:
		a.restartDelayLeft--
		return a.def.StandbyPower
	case r.Float64() < startProbability:
		a.cycleLength = a.sampleCycleLength(r)
		a.cycleTimeLeft = a.cycleLength
		a.restartDelayLeft = a.def.RestartDelay()
		power := a.runningPower()
		a.cycleTimeLeft--
		return power
	default:
		return a.def.StandbyPower
	}
}

// runningPower returns the power at the current point of the cycle.
func (a *Appliance) runningPower() float64 {
	curve := a.def.Kind().Curve()
	if curve == nil {
		return a.ratedPower
	}
	i := a.cycleLength - a.cycleTimeLeft
	if i < 0 || i >= len(curve) {
		return a.def.StandbyPower
	}
	return curve[i] * a.ratedPower
}

// sampleCycleLength returns the length of a new cycle in minutes, at least 1.
func (a *Appliance) sampleCycleLength(r *rand.Rand) int {
	kind := a.def.Kind()
	var n int
	switch {
	case kind.Curve() != nil:
		n = len(kind.Curve())
	case kind.hasGeometricCycles():
		u := math.Min(r.Float64(), maxCycleQuantile)
		n = int(math.Floor(float64(a.def.MeanCycleLength()) * math.Pow(-math.Log(1-u), 1.1)))
	default:
		n = a.def.MeanCycleLength()
	}
	return max(n, 1)
}

// Generate simulates one appliance in watts for a year of occupancy. meanActiveFraction is the
// fraction of minutes with someone active and calibrationScalar scales the definition's cycles
// per year for the dwelling. Definitions of Kind Cold are simulated with GenerateCold instead.
func Generate(r *rand.Rand, occ series.Occupancy, meanActiveFraction float64, def *Definition, stats ActivityStatistics, calibrationScalar float64, startDayOfWeek int) (series.Power, series.Warnings, error) {
	if def == nil {
		return nil, nil, fmt.Errorf("%w: nil appliance definition", series.ErrConfiguration)
	}
	if def.Kind() == Cold {
		return nil, nil, fmt.Errorf("%w: appliance %s is a cold appliance", series.ErrConfiguration, def.Name)
	}
	if err := series.ValidateDayOfWeek(startDayOfWeek); err != nil {
		return nil, nil, err
	}
	if err := series.CheckLength("occupancy", len(occ)); err != nil {
		return nil, nil, err
	}

	var warnings series.Warnings
	out := series.NewPower()
	cycles := def.CyclesPerYear * calibrationScalar

	if cycles == 0 {
		baseload := def.RatedPower()
		if baseload <= 0 {
			baseload = def.StandbyPower
		}
		for t := range out {
			out[t] = baseload
		}
		return out, warnings, nil
	}

	if p, ok := def.Profile().(activityProfile); ok {
		if err := stats.Require(p.activity, slices.Max(occ)); err != nil {
			return nil, nil, fmt.Errorf("appliance %s: %w", def.Name, err)
		}
	}

	calibrate := func(cycles float64) (float64, series.Warnings) {
		return Calibrate(cycles, def.MeanCycleLength(), def.RestartDelay(), def.OccupancyDependent, meanActiveFraction, def.AverageActivityProbability())
	}
	scalar, w := calibrate(cycles)
	for _, msg := range w {
		warnings.Addf("appliance %s: %s", def.Name, msg)
	}

	a := NewAppliance(r, def)
	profile := def.Profile()
	seasonality := def.Seasonality()
	day := startDayOfWeek
	seasonalWarned := false

	for d := 0; d < series.DaysPerYear; d++ {
		weekend := series.IsWeekend(day)
		dayScalar := scalar
		if seasonality != nil {
			var dayWarnings series.Warnings
			dayScalar, dayWarnings = calibrate(cycles + seasonality.CyclesOffset(d))
			// only the first day that needs adjusting is reported
			if len(dayWarnings) > 0 && !seasonalWarned {
				warnings.Addf("appliance %s: day %d: %s", def.Name, d, dayWarnings[0])
				seasonalWarned = true
			}
		}

		for t := d * series.MinutesPerDay; t < (d+1)*series.MinutesPerDay; t++ {
			active := occ[t]
			p := dayScalar * profile.ActivityProbability(stats, weekend, active, series.SlotOfDay(t))
			out[t] = a.step(r, active, p)
		}
		day = series.NextDayOfWeek(day)
	}

	return out, warnings, nil
}
