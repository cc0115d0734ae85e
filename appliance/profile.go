package appliance

import (
	"fmt"
	"strings"

	"github.com/synaptecltd/demand/series"
)

// Profile names recognised by ProfileFromName. Activity profiles are any name with the
// ActivityPrefix, e.g. ACT_TV.
const (
	LevelProfileName           = "LEVEL"
	ActiveOccupancyProfileName = "ACTIVE_OCC"
	CustomProfileName          = "CUSTOM"
	ActivityPrefix             = "ACT_"

	laundryActivity = "ACT_LAUNDRY"
)

// UsageProfile decides how likely an appliance is to be switched on, and whether a running cycle
// waits for occupants to return.
type UsageProfile interface {
	Name() string // Returns the profile name as written in configuration
	// Returns the relative likelihood of a switch-on in this 10-minute slot
	ActivityProbability(stats ActivityStatistics, weekend bool, activeOccupants, slot int) float64
	Pausable() bool // Returns whether a running cycle stops counting down while nobody is active
}

// ProfileFromName returns the usage profile with the given name, ignoring case. An empty name is LEVEL.
func ProfileFromName(name string) (UsageProfile, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	switch {
	case name == "" || name == LevelProfileName:
		return levelProfile{}, nil
	case name == ActiveOccupancyProfileName:
		return activeOccupancyProfile{}, nil
	case name == CustomProfileName:
		return customProfile{}, nil
	case strings.HasPrefix(name, ActivityPrefix) && len(name) > len(ActivityPrefix):
		return activityProfile{activity: name}, nil
	default:
		return nil, fmt.Errorf("%w: unknown usage profile %q", series.ErrConfiguration, name)
	}
}

// Use independent of occupancy.
type levelProfile struct{}

func (levelProfile) Name() string { return LevelProfileName }

func (levelProfile) ActivityProbability(ActivityStatistics, bool, int, int) float64 { return 1 }

func (levelProfile) Pausable() bool { return false }

// Use whenever anyone is active.
type activeOccupancyProfile struct{}

func (activeOccupancyProfile) Name() string { return ActiveOccupancyProfileName }

func (activeOccupancyProfile) ActivityProbability(_ ActivityStatistics, _ bool, activeOccupants, _ int) float64 {
	if activeOccupants > 0 {
		return 1
	}
	return 0
}

func (activeOccupancyProfile) Pausable() bool { return true }

// Use follows the time-of-day statistics of a named activity.
type activityProfile struct {
	activity string
}

func (p activityProfile) Name() string { return p.activity }

func (p activityProfile) ActivityProbability(stats ActivityStatistics, weekend bool, activeOccupants, slot int) float64 {
	if activeOccupants == 0 {
		return 0
	}
	return stats.Probability(weekend, activeOccupants, p.activity, slot)
}

// Laundry carries on whether or not anyone is watching.
func (p activityProfile) Pausable() bool { return p.activity != laundryActivity }

// customProfile is an extension point for appliances with bespoke control logic, such as storage
// heaters. It never switches on.
type customProfile struct{}

func (customProfile) Name() string { return CustomProfileName }

func (customProfile) ActivityProbability(ActivityStatistics, bool, int, int) float64 { return 0 }

func (customProfile) Pausable() bool { return false }
