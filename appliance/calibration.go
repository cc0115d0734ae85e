package appliance

import (
	"github.com/synaptecltd/demand/series"
)

// maxRunningFraction caps the time an appliance may run when its configured cycles would not fit in a year.
const maxRunningFraction = 0.7

// Calibrate returns the scalar that converts an activity probability into a per-minute switch-on
// probability, such that cyclesPerYear cycles happen on average over the year.
// meanActiveFraction is the fraction of the year with someone active, used when occupancyDependent.
func Calibrate(cyclesPerYear float64, meanCycleLength, restartDelay int, occupancyDependent bool, meanActiveFraction, averageActivityProbability float64) (float64, series.Warnings) {
	var warnings series.Warnings
	if cyclesPerYear <= 0 {
		return 0, warnings
	}

	timeRunning := cyclesPerYear * float64(meanCycleLength)
	if timeRunning > series.MinutesPerYear {
		capped := maxRunningFraction * series.MinutesPerYear / float64(meanCycleLength)
		warnings.Addf("%.1f cycles of %d minutes exceed a year, capped to %.1f", cyclesPerYear, meanCycleLength, capped)
		cyclesPerYear = capped
		timeRunning = cyclesPerYear * float64(meanCycleLength)
	}

	available := float64(series.MinutesPerYear)
	if occupancyDependent {
		available *= meanActiveFraction
	}
	startable := available - (timeRunning + cyclesPerYear*float64(restartDelay))
	if startable <= 0 {
		warnings.Addf("no startable minutes left for %.1f cycles, starting whenever possible", cyclesPerYear)
		startable = cyclesPerYear
	}

	if averageActivityProbability <= 0 {
		warnings.Addf("average activity probability %v is not positive, using 1", averageActivityProbability)
		averageActivityProbability = 1
	}

	return (1 / (startable / cyclesPerYear)) / averageActivityProbability, warnings
}
