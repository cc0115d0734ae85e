package occupancy

import "fmt"

// NewUniformData returns reference data for household sizes 1 to maxOccupants in which every
// initial state and every transition is equally likely. It stands in for survey-derived matrices
// in tests and smoke runs. The distributions are valid by construction, so a failure to build
// them panics.
func NewUniformData(maxOccupants int) *Data {
	data := NewData()
	for n := 1; n <= maxOccupants; n++ {
		states := n + 1
		uniform := make([]float64, states)
		for i := range uniform {
			uniform[i] = 1 / float64(states)
		}
		for _, weekend := range []bool{false, true} {
			if err := data.SetInitialStates(weekend, n, uniform); err != nil {
				panic(fmt.Sprintf("uniform initial states for %d occupants: %v", n, err))
			}
		}

		rows := make([][]float64, SlotsPerDay*states)
		for i := range rows {
			rows[i] = Cumulative(uniform)
		}
		m, err := NewTransitionMatrix(n, rows)
		if err != nil {
			panic(fmt.Sprintf("uniform transition matrix for %d occupants: %v", n, err))
		}
		data.SetMatrix(false, m)
		data.SetMatrix(true, m)
	}
	return data
}
