package mathfuncs_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/synaptecltd/demand/mathfuncs"
	"gonum.org/v1/gonum/stat"
)

// Tests for the periodic functions used for seasonal modulation
func TestPeriodicFunctions(t *testing.T) {
	M := 1.0 + rand.Float64()*99.0 // ampltiude (between 1 and 100)
	x := 1.0 + rand.Float64()*99.0 // time (between 1 and 100)

	testCases := []struct {
		name     string  // name of the function, defined in the mathsFunctions map
		t        float64 // elapsed time
		A        float64 // amplitude
		T        float64 // period
		expected float64 // expected value of the function at time t
		delta    float64 // allowed error
		isError  bool    // true if an error is expected
	}{
		{
			name:    "not_a_function",
			isError: true,
		},
		{
			name:     "sine",
			t:        x,
			A:        M,
			T:        4 * x,
			expected: M, // M*sin(2*pi*(x/4x)) = M*sin(pi/2) = M
			delta:    1e-6,
		},
		{
			name:     "", // defaults to sine
			t:        x,
			A:        M,
			T:        4 * x,
			expected: M,
			delta:    1e-6,
		},
		{
			name:     "cosine",
			t:        0,
			A:        M,
			T:        x,
			expected: M, // M*cos(0) = M
			delta:    1e-2 * M,
		},
		{
			name:     "cosine",
			t:        x,
			A:        M,
			T:        2 * x,
			expected: -M, // M*cos(pi) = -M
			delta:    1e-2 * M,
		},
		{
			name:     "square",
			t:        1.5 * x,
			A:        M,
			T:        2.0 * x,
			expected: -M, // negative value for t > T/2
			delta:    1e-6,
		},
		{
			name:     "sawtooth",
			t:        x,
			A:        M,
			T:        4 * x,
			expected: M / 2, // quarter of time period = half way up the sawtooth wave
			delta:    1e-6,
		},
		{
			name:     "none",
			t:        x,
			A:        M,
			T:        x,
			expected: 0.0,
			delta:    1e-12,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testFunction, err := mathfuncs.GetFunctionFromName(tc.name)

			if tc.isError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			result := testFunction(tc.t, tc.A, tc.T)
			assert.InDelta(t, tc.expected, result, tc.delta)
		})
	}
}

func TestGetMathsFunctionNames(t *testing.T) {
	names := mathfuncs.GetMathsFunctionNames()
	assert.ElementsMatch(t, []string{"sine", "cosine", "square", "sawtooth", "none"}, names)
}

func TestRandomVariateZeroMean(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		assert.Equal(t, 0.0, mathfuncs.RandomVariate(r, 0, 10))
	}
}

func TestRandomVariateZeroStdDev(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	assert.Equal(t, 42.0, mathfuncs.RandomVariate(r, 42, 0))
}

func TestRandomVariateStatistics(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))

	testCases := []struct {
		mean   float64
		stddev float64
		delta  float64
	}{
		{mean: 100, stddev: 10, delta: 1},
		{mean: -5, stddev: 2, delta: 0.2},
	}

	for _, tc := range testCases {
		samples := make([]float64, 100_000)
		for i := range samples {
			samples[i] = mathfuncs.RandomVariate(r, tc.mean, tc.stddev)
			assert.True(t, math.Abs(samples[i]-tc.mean) <= 4*tc.stddev, "sample outside truncated range")
		}

		mean, stddev := stat.MeanStdDev(samples, nil)
		assert.InDelta(t, tc.mean, mean, tc.delta)
		assert.InDelta(t, tc.stddev, stddev, tc.delta)
	}
}
