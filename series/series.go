// Package series holds the one-minute annual series shared by every engine, along with the
// error taxonomy and day-of-week bookkeeping they have in common.
package series

import (
	"errors"
	"fmt"
)

const (
	MinutesPerDay  = 1440
	DaysPerYear    = 365
	MinutesPerYear = MinutesPerDay * DaysPerYear // leap years are not modelled
)

// Errors returned by the engines. Callers should test with errors.Is as engines wrap these with context.
var (
	ErrConfiguration  = errors.New("configuration error")    // invalid day of week, unknown appliance name
	ErrData           = errors.New("data error")             // malformed or undersized reference data
	ErrLengthMismatch = errors.New("series length mismatch") // input series not MinutesPerYear long
)

// Occupancy is the number of active occupants in each minute of the year.
type Occupancy []int

// Power is a power value for each minute of the year. Units depend on the producing engine.
type Power []float64

// NewPower returns a zeroed annual power series.
func NewPower() Power {
	return make(Power, MinutesPerYear)
}

// Add accumulates other into p minute by minute, scaling other by factor.
func (p Power) Add(other Power, factor float64) error {
	if len(other) != len(p) {
		return fmt.Errorf("%w: adding series of length %d to %d", ErrLengthMismatch, len(other), len(p))
	}
	for i, v := range other {
		p[i] += v * factor
	}
	return nil
}

// CheckLength returns ErrLengthMismatch if n is not MinutesPerYear.
func CheckLength(name string, n int) error {
	if n != MinutesPerYear {
		return fmt.Errorf("%w: %s has %d values, expected %d", ErrLengthMismatch, name, n, MinutesPerYear)
	}
	return nil
}

// Warnings collects recoverable conditions (clamped occupant counts, degenerate calibrations) that
// should be reported to the caller without halting generation.
type Warnings []string

// Addf appends a formatted warning. It is a no-op on a nil receiver.
func (w *Warnings) Addf(format string, args ...any) {
	if w == nil {
		return
	}
	*w = append(*w, fmt.Sprintf(format, args...))
}

// Append appends all of other to w.
func (w *Warnings) Append(other Warnings) {
	if w == nil {
		return
	}
	*w = append(*w, other...)
}
