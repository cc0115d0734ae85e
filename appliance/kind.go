package appliance

import (
	"fmt"
	"strings"

	"github.com/synaptecltd/demand/series"
)

// Kind selects the power curve and cycle length policy of an appliance. It is resolved once when
// a definition is built.
type Kind int

const (
	Generic Kind = iota
	ClothesWasher
	ClothesDryer
	Dishwasher
	Television
	GameConsole
	Custom
	Cold // refrigeration, simulated independently of occupancy
)

var kindNames = map[Kind]string{
	Generic:       "generic",
	ClothesWasher: "clothes_washer",
	ClothesDryer:  "clothes_dryer",
	Dishwasher:    "dishwasher",
	Television:    "television",
	GameConsole:   "game_console",
	Custom:        "custom",
	Cold:          "cold",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name, ignoring case. An empty name is Generic.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Generic, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return Generic, fmt.Errorf("%w: unknown appliance kind %q", series.ErrConfiguration, name)
}

// hasGeometricCycles reports whether cycle lengths are drawn per event rather than fixed.
func (k Kind) hasGeometricCycles() bool {
	return k == Television || k == GameConsole
}
