package appliance

import (
	"fmt"
	"math/rand/v2"

	"github.com/synaptecltd/demand/series"
)

// GenerateCold simulates a refrigeration appliance in watts. It cycles at a fixed power
// independent of occupancy, starting at random so that annualEnergy (kWh) is used over
// cyclesPerYear cycles of cycleLength minutes, each followed by restartDelay minutes off.
func GenerateCold(r *rand.Rand, annualEnergy, cyclesPerYear float64, cycleLength, restartDelay int) (series.Power, series.Warnings, error) {
	var warnings series.Warnings
	switch {
	case annualEnergy < 0:
		return nil, nil, fmt.Errorf("%w: cold appliance annual energy %v is negative", series.ErrConfiguration, annualEnergy)
	case cyclesPerYear < 0:
		return nil, nil, fmt.Errorf("%w: cold appliance cycles per year %v is negative", series.ErrConfiguration, cyclesPerYear)
	case restartDelay < 0:
		return nil, nil, fmt.Errorf("%w: cold appliance restart delay %d is negative", series.ErrConfiguration, restartDelay)
	case cyclesPerYear > 0 && cycleLength <= 0:
		return nil, nil, fmt.Errorf("%w: cold appliance cycle length %d must be positive", series.ErrConfiguration, cycleLength)
	}

	out := series.NewPower()
	if cyclesPerYear == 0 {
		return out, warnings, nil
	}

	totalRunMinutes := cyclesPerYear * float64(cycleLength)
	availableMinutes := series.MinutesPerYear - (totalRunMinutes + cyclesPerYear*float64(restartDelay))
	startProbability := 1.0
	if availableMinutes > 0 {
		startProbability = 1 / (availableMinutes / cyclesPerYear)
	} else {
		warnings.Addf("cold appliance cycles fill the year, starting whenever possible")
	}
	cyclePower := annualEnergy * 1000 / (totalRunMinutes / 60)

	// random initial delay so dwellings are not synchronised
	restartDelayLeft := int(r.Float64() * 2 * float64(restartDelay))
	cycleTimeLeft := 0

	for t := range out {
		switch {
		case cycleTimeLeft > 0:
			out[t] = cyclePower
			cycleTimeLeft--
		case restartDelayLeft > 0:
			restartDelayLeft--
		case r.Float64() < startProbability:
			out[t] = cyclePower
			cycleTimeLeft = cycleLength - 1
			restartDelayLeft = restartDelay
		}
	}
	return out, warnings, nil
}
