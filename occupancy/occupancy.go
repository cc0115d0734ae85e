// Package occupancy simulates the number of active occupants in a dwelling with a first-order
// Markov chain stepped every 10 minutes.
package occupancy

import (
	"fmt"
	"math/rand/v2"

	"github.com/synaptecltd/demand/series"
)

// The initial state covers the first 7 slots (70 minutes) of the first day, so simulation of
// that day starts at slot 7.
// TODO: step slots 1 to 6 of the first day from the initial state instead of holding it for 70 minutes.
const skippedFirstDaySlots = 7

// Generate returns a year of active-occupant counts for a dwelling of the given size, starting on
// startDayOfWeek (1 = Sunday). Household sizes above MaxOccupants are clamped with a warning.
func Generate(r *rand.Rand, data *Data, occupants, startDayOfWeek int) (series.Occupancy, series.Warnings, error) {
	var warnings series.Warnings

	if err := series.ValidateDayOfWeek(startDayOfWeek); err != nil {
		return nil, nil, err
	}
	if occupants < 1 {
		return nil, nil, fmt.Errorf("%w: dwelling must have at least one occupant, got %d", series.ErrConfiguration, occupants)
	}
	if occupants > MaxOccupants {
		warnings.Addf("occupant count %d exceeds %d, clamping", occupants, MaxOccupants)
		occupants = MaxOccupants
	}

	weekday, weekend, err := data.matrices(occupants)
	if err != nil {
		return nil, nil, err
	}
	initial, err := data.initialStates(series.IsWeekend(startDayOfWeek), occupants)
	if err != nil {
		return nil, nil, err
	}

	occ := make(series.Occupancy, 0, series.MinutesPerYear)

	state := drawState(r, initial)
	for i := 0; i < skippedFirstDaySlots*SlotMinutes; i++ {
		occ = append(occ, state)
	}

	day := startDayOfWeek
	for d := 0; d < series.DaysPerYear; d++ {
		tpm := weekday
		if series.IsWeekend(day) {
			tpm = weekend
		}

		firstSlot := 0
		if d == 0 {
			firstSlot = skippedFirstDaySlots
		}
		for slot := firstSlot; slot < SlotsPerDay; slot++ {
			state = drawState(r, tpm.Row(slot, state))
			for m := 0; m < SlotMinutes; m++ {
				occ = append(occ, state)
			}
		}

		day = series.NextDayOfWeek(day)
	}

	if err := series.CheckLength("occupancy", len(occ)); err != nil {
		return nil, nil, err
	}
	return occ, warnings, nil
}

// drawState returns the smallest state whose cumulative probability exceeds a uniform draw,
// or the highest state if none does.
func drawState(r *rand.Rand, cumulative []float64) int {
	u := r.Float64()
	for state, c := range cumulative {
		if c > u {
			return state
		}
	}
	return len(cumulative) - 1
}

// MeanActiveFraction returns the fraction of minutes with at least one active occupant.
func MeanActiveFraction(occ series.Occupancy) float64 {
	if len(occ) == 0 {
		return 0
	}
	active := 0
	for _, n := range occ {
		if n > 0 {
			active++
		}
	}
	return float64(active) / float64(len(occ))
}
