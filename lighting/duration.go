package lighting

import (
	"math"
	"math/rand/v2"
)

// durationBand is a range of switch-on durations in minutes, selected while a uniform draw is
// below its cumulative probability.
type durationBand struct {
	cumulative float64
	lower      int
	upper      int
}

// Empirical distribution of how long a light stays on once switched on. The third band shares
// its breakpoint with the second and so is never selected.
var durationBands = []durationBand{
	{cumulative: 0.1111, lower: 1, upper: 1},
	{cumulative: 0.2222, lower: 2, upper: 2},
	{cumulative: 0.2222, lower: 3, upper: 4},
	{cumulative: 0.3333, lower: 5, upper: 8},
	{cumulative: 0.4444, lower: 9, upper: 16},
	{cumulative: 0.5556, lower: 17, upper: 27},
	{cumulative: 0.6667, lower: 28, upper: 49},
	{cumulative: 0.8889, lower: 50, upper: 91},
	{cumulative: 1.0, lower: 92, upper: 259},
}

// SampleDuration returns a lighting event duration in minutes.
func SampleDuration(r *rand.Rand) int {
	band := selectBand(r.Float64())
	u := r.Float64()
	return int(math.Round(float64(band.lower) + u*float64(band.upper-band.lower)))
}

func selectBand(u float64) durationBand {
	for _, band := range durationBands {
		if band.cumulative > u {
			return band
		}
	}
	return durationBands[len(durationBands)-1]
}
