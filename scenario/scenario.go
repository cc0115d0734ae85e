// Package scenario loads batch generation scenarios from YAML or TOML files and turns them into
// dwellings ready to simulate.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml"
	"github.com/synaptecltd/demand"
	"github.com/synaptecltd/demand/appliance"
	"github.com/synaptecltd/demand/lighting"
	"github.com/synaptecltd/demand/series"
	"gopkg.in/yaml.v2"
)

// Scenario is a set of dwellings sharing reference data and appliance definitions.
type Scenario struct {
	Seed                       uint64                  `yaml:"seed" mapstructure:"seed"` // base seed, each dwelling draws from its own stream
	ReferenceData              ReferenceDataPaths      `yaml:"referenceData" mapstructure:"referenceData"`
	Lighting                   lighting.Params         `yaml:"lighting" mapstructure:"lighting"`
	ApplianceCalibrationScalar float64                 `yaml:"applianceCalibrationScalar" mapstructure:"applianceCalibrationScalar"`
	Appliances                 []*appliance.Definition `yaml:"appliances" mapstructure:"appliances"`
	Dwellings                  []DwellingParams        `yaml:"dwellings" mapstructure:"dwellings"`
}

// ReferenceDataPaths locates the reference data. Relative paths are resolved against the scenario file.
type ReferenceDataPaths struct {
	Directory  string `yaml:"directory" mapstructure:"directory"`   // occupancy matrices and activity statistics
	Irradiance string `yaml:"irradiance" mapstructure:"irradiance"` // one value per minute of the year
}

// DwellingParams describes one dwelling, or Count identical ones.
type DwellingParams struct {
	ID             string    `yaml:"id" mapstructure:"id"` // uuid, generated if empty; only valid with a count of 1
	Name           string    `yaml:"name" mapstructure:"name"`
	Count          int       `yaml:"count" mapstructure:"count"` // 0 is treated as 1
	Occupants      int       `yaml:"occupants" mapstructure:"occupants"`
	StartDayOfWeek int       `yaml:"startDayOfWeek" mapstructure:"startDayOfWeek"` // 0 defaults to Sunday
	Bulbs          []float64 `yaml:"bulbs" mapstructure:"bulbs"`                   // W
	Appliances     []string  `yaml:"appliances" mapstructure:"appliances"`         // definition names
}

// New returns a scenario holding the default calibration.
func New() *Scenario {
	return &Scenario{
		Lighting:                   lighting.DefaultParams(),
		ApplianceCalibrationScalar: 1,
	}
}

// Load reads a scenario file, choosing the format from its extension (.yaml, .yml or .toml).
func Load(path string) (*Scenario, error) {
	s := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, s); err != nil {
			return nil, fmt.Errorf("%w: parse scenario %s: %w", series.ErrConfiguration, path, err)
		}
	case ".toml":
		tree, err := toml.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: parse scenario %s: %w", series.ErrConfiguration, path, err)
		}
		if err := decodeMap(tree.ToMap(), s); err != nil {
			return nil, fmt.Errorf("%w: decode scenario %s: %v", series.ErrConfiguration, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported scenario format %q", series.ErrConfiguration, ext)
	}

	s.ReferenceData.Directory = resolve(path, s.ReferenceData.Directory)
	s.ReferenceData.Irradiance = resolve(path, s.ReferenceData.Irradiance)
	return s, nil
}

func decodeMap(m map[string]interface{}, s *Scenario) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  appliance.GetDecodeHook(),
		ErrorUnused: true,
		Result:      s,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

func resolve(scenarioPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(scenarioPath), path)
}

// Expand returns the scenario's dwellings, resolving appliance names against its definitions.
func (s *Scenario) Expand() ([]*demand.Dwelling, error) {
	definitions := make(map[string]*appliance.Definition, len(s.Appliances))
	for _, def := range s.Appliances {
		if _, ok := definitions[def.Name]; ok {
			return nil, fmt.Errorf("%w: appliance %s is defined twice", series.ErrConfiguration, def.Name)
		}
		definitions[def.Name] = def
	}

	var dwellings []*demand.Dwelling
	for i, p := range s.Dwellings {
		count := max(p.Count, 1)
		if p.ID != "" && count > 1 {
			return nil, fmt.Errorf("%w: dwelling %d has an id and a count of %d", series.ErrConfiguration, i, count)
		}

		var appliances []*appliance.Definition
		for _, name := range p.Appliances {
			def, ok := definitions[name]
			if !ok {
				return nil, fmt.Errorf("%w: dwelling %d uses undefined appliance %q", series.ErrConfiguration, i, name)
			}
			appliances = append(appliances, def)
		}

		startDay := p.StartDayOfWeek
		if startDay == 0 {
			startDay = series.Sunday
		}
		if err := series.ValidateDayOfWeek(startDay); err != nil {
			return nil, fmt.Errorf("dwelling %d: %w", i, err)
		}
		if p.Occupants < 1 {
			return nil, fmt.Errorf("%w: dwelling %d has %d occupants", series.ErrConfiguration, i, p.Occupants)
		}

		for n := 0; n < count; n++ {
			d := demand.NewDwelling(p.Name, p.Occupants)
			if p.ID != "" {
				id, err := uuid.Parse(p.ID)
				if err != nil {
					return nil, fmt.Errorf("%w: dwelling %d id: %v", series.ErrConfiguration, i, err)
				}
				d.ID = id
			}
			d.StartDayOfWeek = startDay
			d.Bulbs = p.Bulbs
			d.Lighting = s.Lighting
			d.Appliances = appliances
			d.ApplianceCalibrationScalar = s.ApplianceCalibrationScalar
			dwellings = append(dwellings, d)
		}
	}
	return dwellings, nil
}
