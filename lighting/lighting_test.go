package lighting

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/demand/series"
)

func constantIrradiance(v float64) []float64 {
	irradiance := make([]float64, series.MinutesPerYear)
	for i := range irradiance {
		irradiance[i] = v
	}
	return irradiance
}

func constantOccupancy(n int) series.Occupancy {
	occ := make(series.Occupancy, series.MinutesPerYear)
	for i := range occ {
		occ[i] = n
	}
	return occ
}

func TestEffectiveOccupancy(t *testing.T) {
	expected := map[int]float64{0: 0, 1: 1, 2: 1.528, 3: 1.694, 4: 1.983, 5: 2.094}
	for active, want := range expected {
		got, err := EffectiveOccupancy(active)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, active := range []int{-1, 6, 10} {
		_, err := EffectiveOccupancy(active)
		assert.True(t, errors.Is(err, series.ErrData), "active %d", active)
	}
}

func TestGenerateUnoccupied(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	out, err := Generate(r, constantIrradiance(0), []float64{60, 60, 100}, DefaultParams(), constantOccupancy(0))
	require.NoError(t, err)
	require.Len(t, out, series.MinutesPerYear)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("minute %d has lighting demand %f with nobody active", i, v)
		}
	}
}

func TestGenerateDarkAndOccupied(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	bulbs := []float64{60, 100}
	out, err := Generate(r, constantIrradiance(0), bulbs, DefaultParams(), constantOccupancy(2))
	require.NoError(t, err)

	on := 0
	for _, v := range out {
		assert.LessOrEqual(t, v, 0.160+1e-9)
		if v > 0 {
			on++
		}
	}
	assert.Greater(t, on, 0, "lights should switch on in a dark occupied dwelling")
}

func TestGenerateBrightDaylightOnlyOverrides(t *testing.T) {
	bulbs := []float64{60, 60, 60, 60}
	occ := constantOccupancy(3)

	dark, err := Generate(rand.New(rand.NewPCG(7, 7)), constantIrradiance(0), bulbs, DefaultParams(), occ)
	require.NoError(t, err)
	bright, err := Generate(rand.New(rand.NewPCG(7, 7)), constantIrradiance(1000), bulbs, DefaultParams(), occ)
	require.NoError(t, err)

	assert.Less(t, sum(bright), sum(dark), "daylight should reduce lighting demand")
	assert.Greater(t, sum(bright), 0.0, "occupants occasionally switch on regardless of daylight")
}

func TestGenerateEventsEndWhenUnoccupied(t *testing.T) {
	// half-hour blocks alternating between one active occupant and nobody
	const block = 30
	occ := make(series.Occupancy, series.MinutesPerYear)
	for i := range occ {
		if (i/block)%2 == 0 {
			occ[i] = 1
		}
	}

	out, err := Generate(rand.New(rand.NewPCG(8, 8)), constantIrradiance(0), []float64{60, 60, 60, 60}, DefaultParams(), occ)
	require.NoError(t, err)

	litAtBoundary := 0
	for i, v := range out {
		if occ[i] == 0 && v != 0 {
			t.Fatalf("minute %d has lighting demand %f with nobody active", i, v)
		}
		if occ[i] == 1 && i+1 < len(occ) && occ[i+1] == 0 && v > 0 {
			litAtBoundary++
		}
	}
	assert.Greater(t, litAtBoundary, 0, "some events should still be running when occupants leave")
}

func TestGenerateLengthMismatch(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	_, err := Generate(r, make([]float64, 10), []float64{60}, DefaultParams(), constantOccupancy(1))
	assert.True(t, errors.Is(err, series.ErrLengthMismatch))

	_, err = Generate(r, constantIrradiance(0), []float64{60}, DefaultParams(), make(series.Occupancy, 10))
	assert.True(t, errors.Is(err, series.ErrLengthMismatch))
}

func TestGenerateInvalidOccupancy(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	_, err := Generate(r, constantIrradiance(0), []float64{60}, DefaultParams(), constantOccupancy(6))
	assert.True(t, errors.Is(err, series.ErrData))
}

func TestSampleDurationBands(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	const n = 200_000

	counts := make([]int, len(durationBands))
	for i := 0; i < n; i++ {
		d := SampleDuration(r)
		require.GreaterOrEqual(t, d, 1)
		require.LessOrEqual(t, d, 259)
		for b, band := range durationBands {
			if d >= band.lower && d <= band.upper {
				counts[b]++
				break
			}
		}
	}

	previous := 0.0
	for b, band := range durationBands {
		expected := band.cumulative - previous
		previous = band.cumulative
		assert.InDelta(t, expected, float64(counts[b])/n, 0.01, "band %d [%d,%d]", b, band.lower, band.upper)
	}
}

func sum(p series.Power) float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}
