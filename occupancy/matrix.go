package occupancy

import (
	"fmt"

	"github.com/synaptecltd/demand/series"
)

const (
	SlotsPerDay   = 144 // 10-minute periods in a day
	SlotMinutes   = 10
	MaxOccupants  = 5
	rowSumEpsilon = 1e-3
)

// TransitionMatrix holds, for one day type and household size, the cumulative probability of each
// next active-occupant count given the 10-minute slot and the current count.
type TransitionMatrix struct {
	occupants int
	rows      [][]float64 // indexed by slot*(occupants+1) + current state
}

// NewTransitionMatrix validates and wraps cumulative rows. There must be SlotsPerDay*(occupants+1)
// rows, ordered by slot then current state, each with occupants+1 non-decreasing values no greater than 1.
func NewTransitionMatrix(occupants int, rows [][]float64) (*TransitionMatrix, error) {
	states := occupants + 1
	if occupants < 1 {
		return nil, fmt.Errorf("%w: transition matrix for %d occupants", series.ErrData, occupants)
	}
	if len(rows) != SlotsPerDay*states {
		return nil, fmt.Errorf("%w: transition matrix for %d occupants has %d rows, expected %d",
			series.ErrData, occupants, len(rows), SlotsPerDay*states)
	}
	for i, row := range rows {
		if err := checkCumulative(row, states); err != nil {
			return nil, fmt.Errorf("transition matrix row %d: %w", i, err)
		}
	}
	return &TransitionMatrix{occupants: occupants, rows: rows}, nil
}

// Returns the household size this matrix describes.
func (m *TransitionMatrix) GetOccupants() int {
	return m.occupants
}

// Row returns the cumulative next-state distribution for a slot and current state.
func (m *TransitionMatrix) Row(slot, state int) []float64 {
	return m.rows[slot*(m.occupants+1)+state]
}

// Cumulative converts a probability distribution into a cumulative one.
func Cumulative(probabilities []float64) []float64 {
	out := make([]float64, len(probabilities))
	sum := 0.0
	for i, p := range probabilities {
		sum += p
		out[i] = sum
	}
	return out
}

func checkCumulative(row []float64, states int) error {
	if len(row) != states {
		return fmt.Errorf("%w: %d values, expected %d", series.ErrData, len(row), states)
	}
	prev := 0.0
	for _, c := range row {
		if c < prev-rowSumEpsilon {
			return fmt.Errorf("%w: cumulative probabilities decrease", series.ErrData)
		}
		prev = c
	}
	// rows for unreachable states may be all zero, the draw then falls through to the highest state
	if prev > 1+rowSumEpsilon {
		return fmt.Errorf("%w: probabilities sum to %f", series.ErrData, prev)
	}
	return nil
}

// InitialKey identifies an initial-state distribution.
type InitialKey struct {
	Weekend   bool
	Occupants int
}

// Data is the read-only reference data needed to simulate occupancy.
type Data struct {
	InitialStates map[InitialKey][]float64  // cumulative distribution over the initial active count
	Weekday       map[int]*TransitionMatrix // keyed by household size
	Weekend       map[int]*TransitionMatrix // keyed by household size
}

// NewData returns empty reference data ready to be filled.
func NewData() *Data {
	return &Data{
		InitialStates: make(map[InitialKey][]float64),
		Weekday:       make(map[int]*TransitionMatrix),
		Weekend:       make(map[int]*TransitionMatrix),
	}
}

// SetInitialStates stores the cumulative form of an initial-state probability distribution.
func (d *Data) SetInitialStates(weekend bool, occupants int, probabilities []float64) error {
	cumulative := Cumulative(probabilities)
	if err := checkCumulative(cumulative, occupants+1); err != nil {
		return fmt.Errorf("initial states for %d occupants: %w", occupants, err)
	}
	d.InitialStates[InitialKey{Weekend: weekend, Occupants: occupants}] = cumulative
	return nil
}

// SetMatrix stores a transition matrix for the given day type.
func (d *Data) SetMatrix(weekend bool, m *TransitionMatrix) {
	if weekend {
		d.Weekend[m.occupants] = m
	} else {
		d.Weekday[m.occupants] = m
	}
}

func (d *Data) matrices(occupants int) (weekday, weekend *TransitionMatrix, err error) {
	if d == nil {
		return nil, nil, fmt.Errorf("%w: no occupancy reference data", series.ErrData)
	}
	weekday, ok := d.Weekday[occupants]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no weekday transition matrix for %d occupants", series.ErrData, occupants)
	}
	weekend, ok = d.Weekend[occupants]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no weekend transition matrix for %d occupants", series.ErrData, occupants)
	}
	return weekday, weekend, nil
}

func (d *Data) initialStates(weekend bool, occupants int) ([]float64, error) {
	cumulative, ok := d.InitialStates[InitialKey{Weekend: weekend, Occupants: occupants}]
	if !ok {
		return nil, fmt.Errorf("%w: no initial states for %d occupants (weekend %v)", series.ErrData, occupants, weekend)
	}
	return cumulative, nil
}
