package mathfuncs

import (
	"errors"
	"math"

	"github.com/stevenblair/sigourney/fast"
)

// A periodic function y=f(t,A,T). Takes amplitude, A, and period, T,
// as inputs and returns the value of the function at time, t.
type MathsFunction func(t, A, T float64) float64

// A map between string name and periodic function pairs, used to modulate appliance
// behaviour over the year.
var mathsFunctions = map[string]MathsFunction{
	"sine":     Sine,
	"cosine":   cosineWave,
	"square":   squareWave,
	"sawtooth": sawtoothWave,
	"none":     none,
}

func GetMathsFunctionNames() []string {
	names := make([]string, 0, len(mathsFunctions))
	for name := range mathsFunctions {
		names = append(names, name)
	}
	return names
}

// Returns the named function. Defaults to sine if name is empty.
func GetFunctionFromName(name string) (MathsFunction, error) {
	if name == "" {
		name = "sine"
	}
	f, ok := mathsFunctions[name]
	if !ok {
		return nil, errors.New("periodic function not found: " + name)
	}

	return f, nil
}

// Returns a sine wave y = A*sin(2π * t / PeriodDuration)
func Sine(t, A, PeriodDuration float64) float64 {
	if PeriodDuration <= 0 {
		PeriodDuration = 365.0 // default to 1 year in days
	}
	return A * math.Sin(2*math.Pi*t/PeriodDuration)
}

// Returns a cosine wave y=A*cos(2*pi*t/T) where A is the amplitude,
// T is the period, and t is elapsed time.
func cosineWave(t, A, T float64) float64 {
	return A * fast.Cos(2*math.Pi*math.Mod(t, T)/T)
}

// Returns a square wave y=A if sin(2*pi*t/T) >= 0, else -A.
func squareWave(t, A, T float64) float64 {
	if math.Sin(2*math.Pi*t/T) >= 0 {
		return A
	}
	return -A
}

// Returns a sawtooth wave y=(2*A/pi)*atan(tan(pi*t/T)),
// where A is the amplitude, T is the period, and t is elapsed time.
func sawtoothWave(t, A, T float64) float64 {
	return (2 * A / math.Pi) * math.Atan(math.Tan(math.Pi*t/T))
}

// none disables modulation.
func none(_, _, _ float64) float64 {
	return 0
}
