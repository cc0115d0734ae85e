package appliance

import (
	"fmt"

	"github.com/synaptecltd/demand/occupancy"
	"github.com/synaptecltd/demand/series"
)

// ActivityKey identifies one row of activity statistics.
type ActivityKey struct {
	Weekend         bool
	ActiveOccupants int
	Activity        string // profile name, e.g. ACT_TV
}

// ActivityStatistics maps a day type, active occupant count and activity to the probability that
// the activity is taking place in each 10-minute slot of the day.
type ActivityStatistics map[ActivityKey][]float64

// Set stores the probabilities for a key, checking there is one per slot and each is in [0,1].
func (s ActivityStatistics) Set(key ActivityKey, probabilities []float64) error {
	if len(probabilities) != occupancy.SlotsPerDay {
		return fmt.Errorf("%w: activity %s has %d slots, expected %d", series.ErrData, key.Activity, len(probabilities), occupancy.SlotsPerDay)
	}
	for i, p := range probabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: activity %s slot %d has probability %v", series.ErrData, key.Activity, i, p)
		}
	}
	s[key] = probabilities
	return nil
}

// Probability returns the probability of the activity in the given slot, or 0 if no statistics are held.
func (s ActivityStatistics) Probability(weekend bool, activeOccupants int, activity string, slot int) float64 {
	probabilities, ok := s[ActivityKey{Weekend: weekend, ActiveOccupants: activeOccupants, Activity: activity}]
	if !ok || slot < 0 || slot >= len(probabilities) {
		return 0
	}
	return probabilities[slot]
}

// Require returns a data error unless statistics exist for the activity on both day types for every
// active occupant count from 1 to maxActive.
func (s ActivityStatistics) Require(activity string, maxActive int) error {
	for active := 1; active <= maxActive; active++ {
		for _, weekend := range []bool{false, true} {
			if _, ok := s[ActivityKey{Weekend: weekend, ActiveOccupants: active, Activity: activity}]; !ok {
				return fmt.Errorf("%w: no statistics for %s with %d active occupants (weekend %v)", series.ErrData, activity, active, weekend)
			}
		}
	}
	return nil
}
