package mathfuncs

import (
	"math"
	"math/rand/v2"
)

// maxRejections bounds the acceptance-rejection loop in RandomVariate. With the density used as the
// acceptance test, the expected number of candidates is about 8*stddev, so the bound is only reached
// for very wide distributions.
const maxRejections = 1 << 20

// RandomVariate returns a draw from a normal distribution with the given mean and standard deviation,
// truncated to mean +/- 4 standard deviations, using acceptance-rejection sampling:
// candidates are drawn uniformly over the truncated range and accepted when an independent uniform
// draw is no greater than the Gaussian density at the candidate.
//
// A mean of exactly 0 returns 0 without consuming any random numbers.
func RandomVariate(r *rand.Rand, mean, stddev float64) float64 {
	if mean == 0 {
		return 0
	}
	if stddev <= 0 {
		return mean
	}

	lower := mean - 4*stddev
	width := 8 * stddev
	for i := 0; i < maxRejections; i++ {
		x := lower + r.Float64()*width
		if r.Float64() <= normalDensity(x, mean, stddev) {
			return x
		}
	}

	// fall back to a direct draw over the same truncated range
	x := mean + r.NormFloat64()*stddev
	return math.Min(math.Max(x, lower), mean+4*stddev)
}

// Returns the Gaussian probability density at x.
func normalDensity(x, mean, stddev float64) float64 {
	z := (x - mean) / stddev
	return math.Exp(-0.5*z*z) / (stddev * math.Sqrt(2*math.Pi))
}
