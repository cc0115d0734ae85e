package appliance

import (
	"errors"
	"fmt"

	"github.com/synaptecltd/demand/mathfuncs"
	"github.com/synaptecltd/demand/series"
)

// Definition is the static description of an appliance type. Build one with NewDefinition so that
// names are resolved and values checked once.
type Definition struct {
	Name               string  // identifies the definition in a scenario
	CyclesPerYear      float64 // base number of cycles a year before the dwelling calibration scalar is applied
	StandbyPower       float64 // W drawn while idle, in restart delay or paused
	OccupancyDependent bool    // true if switch-on can only happen while someone is active

	// Setters and getters are provided for private fields below to allow for error checking
	kind                       Kind
	profile                    UsageProfile
	meanCycleLength            int          // minutes
	ratedPower                 float64      // W, mean cycle power or peak power for fixed-curve kinds
	restartDelay               int          // minutes idle after a cycle before the next can start
	averageActivityProbability float64      // mean of the profile's activity probability over the year
	annualEnergy               float64      // kWh, cold kinds only
	seasonality                *Seasonality // nil for no seasonal variation in cycle count
}

// DefinitionParams are the configurable values of a Definition.
type DefinitionParams struct {
	Name                       string             `yaml:"name" mapstructure:"name"`
	Kind                       string             `yaml:"kind" mapstructure:"kind"`                                             // see ParseKind, empty for generic
	Profile                    string             `yaml:"profile" mapstructure:"profile"`                                       // LEVEL, ACTIVE_OCC, CUSTOM or ACT_*, empty for LEVEL
	MeanCycleLength            int                `yaml:"meanCycleLength" mapstructure:"meanCycleLength"`                       // minutes, defaults to the curve length for fixed-curve kinds
	CyclesPerYear              float64            `yaml:"cyclesPerYear" mapstructure:"cyclesPerYear"`                           // base cycles a year
	StandbyPower               float64            `yaml:"standbyPower" mapstructure:"standbyPower"`                             // W
	RatedPower                 float64            `yaml:"ratedPower" mapstructure:"ratedPower"`                                 // W
	RestartDelay               int                `yaml:"restartDelay" mapstructure:"restartDelay"`                             // minutes
	OccupancyDependent         *bool              `yaml:"occupancyDependent" mapstructure:"occupancyDependent"`                 // defaults to true unless the profile is LEVEL
	AverageActivityProbability float64            `yaml:"averageActivityProbability" mapstructure:"averageActivityProbability"` // 0 defaults to 1 for profiles not driven by activity statistics
	AnnualEnergy               float64            `yaml:"annualEnergy" mapstructure:"annualEnergy"`                             // kWh, cold kinds only
	Seasonality                *SeasonalityParams `yaml:"seasonality" mapstructure:"seasonality"`                               // clothes dryers default to DefaultDryerSeasonality
}

// Initialise the internal fields of Definition when it is unmarshalled from yaml.
func (d *Definition) UnmarshalYAML(unmarshal func(any) error) error {
	var params DefinitionParams
	if err := unmarshal(&params); err != nil {
		return err
	}

	// This performs checking for invalid values
	definition, err := NewDefinition(params)
	if err != nil {
		return err
	}

	*d = *definition
	return nil
}

// Returns a Definition pointer with the requested parameters, checking for invalid values.
func NewDefinition(params DefinitionParams) (*Definition, error) {
	d := &Definition{
		Name:         params.Name,
		StandbyPower: params.StandbyPower,
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: appliance definition has no name", series.ErrConfiguration)
	}

	kind, err := ParseKind(params.Kind)
	if err != nil {
		return nil, fmt.Errorf("appliance %s: %w", d.Name, err)
	}
	d.kind = kind

	profile, err := ProfileFromName(params.Profile)
	if err != nil {
		return nil, fmt.Errorf("appliance %s: %w", d.Name, err)
	}
	d.profile = profile

	d.OccupancyDependent = profile.Name() != LevelProfileName
	if params.OccupancyDependent != nil {
		d.OccupancyDependent = *params.OccupancyDependent
	}

	// fixed-curve kinds always run for the length of their curve
	meanCycleLength := params.MeanCycleLength
	if curve := kind.Curve(); curve != nil {
		if meanCycleLength != 0 && meanCycleLength != len(curve) {
			return nil, d.wrap(fmt.Errorf("meanCycleLength %d does not match the %d minute %s cycle", meanCycleLength, len(curve), kind))
		}
		meanCycleLength = len(curve)
	}

	// Invalid values checked by setters
	if err := d.SetCyclesPerYear(params.CyclesPerYear); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.SetMeanCycleLength(meanCycleLength); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.SetRatedPower(params.RatedPower); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.SetRestartDelay(params.RestartDelay); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.SetAnnualEnergy(params.AnnualEnergy); err != nil {
		return nil, d.wrap(err)
	}
	if err := d.SetAverageActivityProbability(params.AverageActivityProbability); err != nil {
		return nil, d.wrap(err)
	}
	if d.StandbyPower < 0 {
		return nil, d.wrap(errors.New("standbyPower must be greater than or equal to 0"))
	}
	if d.CyclesPerYear > 0 && d.meanCycleLength == 0 {
		return nil, d.wrap(errors.New("meanCycleLength must be greater than 0 when cyclesPerYear is set"))
	}

	seasonalityParams := params.Seasonality
	if seasonalityParams == nil && kind == ClothesDryer {
		seasonalityParams = &DefaultDryerSeasonality
	}
	if seasonalityParams != nil {
		seasonality, err := NewSeasonality(*seasonalityParams)
		if err != nil {
			return nil, d.wrap(err)
		}
		d.seasonality = seasonality
	}

	return d, nil
}

func (d *Definition) wrap(err error) error {
	return fmt.Errorf("%w: appliance %s: %v", series.ErrConfiguration, d.Name, err)
}

// Returns the appliance kind.
func (d *Definition) Kind() Kind {
	return d.kind
}

// Returns the usage profile.
func (d *Definition) Profile() UsageProfile {
	return d.profile
}

// Returns the mean cycle length in minutes.
func (d *Definition) MeanCycleLength() int {
	return d.meanCycleLength
}

// Returns the rated power in watts.
func (d *Definition) RatedPower() float64 {
	return d.ratedPower
}

// Returns the restart delay in minutes.
func (d *Definition) RestartDelay() int {
	return d.restartDelay
}

// Returns the annual energy of a cold appliance in kWh.
func (d *Definition) AnnualEnergy() float64 {
	return d.annualEnergy
}

// Returns the average activity probability used in calibration.
func (d *Definition) AverageActivityProbability() float64 {
	return d.averageActivityProbability
}

// Returns the seasonal variation in cycle count, or nil.
func (d *Definition) Seasonality() *Seasonality {
	return d.seasonality
}

// Sets the base cycles per year if cycles >= 0.
func (d *Definition) SetCyclesPerYear(cycles float64) error {
	if cycles < 0 {
		return errors.New("cyclesPerYear must be greater than or equal to 0")
	}
	d.CyclesPerYear = cycles
	return nil
}

// Sets the mean cycle length in minutes if minutes >= 0.
func (d *Definition) SetMeanCycleLength(minutes int) error {
	if minutes < 0 {
		return errors.New("meanCycleLength must be greater than or equal to 0")
	}
	d.meanCycleLength = minutes
	return nil
}

// Sets the rated power in watts if power >= 0.
func (d *Definition) SetRatedPower(power float64) error {
	if power < 0 {
		return errors.New("ratedPower must be greater than or equal to 0")
	}
	d.ratedPower = power
	return nil
}

// Sets the restart delay in minutes if minutes >= 0.
func (d *Definition) SetRestartDelay(minutes int) error {
	if minutes < 0 {
		return errors.New("restartDelay must be greater than or equal to 0")
	}
	d.restartDelay = minutes
	return nil
}

// Sets the annual energy in kWh if energy >= 0.
func (d *Definition) SetAnnualEnergy(energy float64) error {
	if energy < 0 {
		return errors.New("annualEnergy must be greater than or equal to 0")
	}
	d.annualEnergy = energy
	return nil
}

// Sets the average activity probability if it is in [0,1]. Zero becomes 1 for profiles that are
// not driven by activity statistics.
func (d *Definition) SetAverageActivityProbability(p float64) error {
	if p < 0 || p > 1 {
		return errors.New("averageActivityProbability must be between 0 and 1")
	}
	if _, ok := d.profile.(activityProfile); p == 0 && !ok {
		p = 1
	}
	d.averageActivityProbability = p
	return nil
}

// SeasonalityParams configures a periodic variation in daily cycle count.
type SeasonalityParams struct {
	Function   string  `yaml:"function" mapstructure:"function"`     // name of a mathfuncs function, empty for sine
	Amplitude  float64 `yaml:"amplitude" mapstructure:"amplitude"`   // cycles a year
	PeriodDays float64 `yaml:"periodDays" mapstructure:"periodDays"` // 0 defaults to a year
	PhaseDays  float64 `yaml:"phaseDays" mapstructure:"phaseDays"`   // shift applied to the day of year
}

// DefaultDryerSeasonality peaks on 1 January, when washing is hardest to dry outdoors.
var DefaultDryerSeasonality = SeasonalityParams{
	Function:   "sine",
	Amplitude:  20.5,
	PeriodDays: series.DaysPerYear,
	PhaseDays:  series.DaysPerYear / 4.0,
}

// Seasonality is a resolved SeasonalityParams.
type Seasonality struct {
	SeasonalityParams
	function mathfuncs.MathsFunction
}

// Returns a Seasonality with its function looked up by name.
func NewSeasonality(params SeasonalityParams) (*Seasonality, error) {
	if params.PeriodDays < 0 {
		return nil, errors.New("seasonality periodDays must be greater than or equal to 0")
	}
	if params.PeriodDays == 0 {
		params.PeriodDays = series.DaysPerYear
	}
	function, err := mathfuncs.GetFunctionFromName(params.Function)
	if err != nil {
		return nil, err
	}
	return &Seasonality{SeasonalityParams: params, function: function}, nil
}

// CyclesOffset returns the change in annual cycle count on the given day of the simulation.
func (s *Seasonality) CyclesOffset(day int) float64 {
	return s.function(float64(day)+s.PhaseDays, s.Amplitude, s.PeriodDays)
}
