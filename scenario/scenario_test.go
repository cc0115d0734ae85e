package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/synaptecltd/demand/appliance"
	"github.com/synaptecltd/demand/lighting"
	"github.com/synaptecltd/demand/series"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

const scenarioYAML = `
seed: 42
referenceData:
  directory: data
  irradiance: data/irradiance.csv
lighting:
  thresholdMean: 55
applianceCalibrationScalar: 1.2
appliances:
  - name: fridge
    kind: cold
    meanCycleLength: 18
    cyclesPerYear: 5890
    restartDelay: 9
    annualEnergy: 300
  - name: tv
    kind: television
    profile: ACT_TV
    meanCycleLength: 73
    cyclesPerYear: 365
    ratedPower: 124
    standbyPower: 3
    averageActivityProbability: 0.25
dwellings:
  - id: 9a1e4c3e-5a37-4c6b-9d5e-3f0c3a1b2c4d
    name: flat
    occupants: 2
    startDayOfWeek: 2
    bulbs: [60, 60, 100]
    appliances: [fridge, tv]
  - name: estate
    count: 3
    occupants: 4
    bulbs: [11, 11]
    appliances: [fridge]
`

const scenarioTOML = `
seed = 42
applianceCalibrationScalar = 1.2

[referenceData]
directory = "data"
irradiance = "data/irradiance.csv"

[lighting]
thresholdMean = 55

[[appliances]]
name = "fridge"
kind = "cold"
meanCycleLength = 18
cyclesPerYear = 5890
restartDelay = 9
annualEnergy = 300

[[appliances]]
name = "tv"
kind = "television"
profile = "ACT_TV"
meanCycleLength = 73
cyclesPerYear = 365
ratedPower = 124
standbyPower = 3
averageActivityProbability = 0.25

[[dwellings]]
id = "9a1e4c3e-5a37-4c6b-9d5e-3f0c3a1b2c4d"
name = "flat"
occupants = 2
startDayOfWeek = 2
bulbs = [60, 60, 100]
appliances = ["fridge", "tv"]

[[dwellings]]
name = "estate"
count = 3
occupants = 4
bulbs = [11, 11]
appliances = ["fridge"]
`

func TestLoad(t *testing.T) {
	dir := fs.NewDir(t, "scenario",
		fs.WithFile("scenario.yaml", scenarioYAML),
		fs.WithFile("scenario.toml", scenarioTOML),
	)

	for _, name := range []string{"scenario.yaml", "scenario.toml"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(dir.Join(name))
			assert.NilError(t, err)

			assert.Equal(t, s.Seed, uint64(42))
			assert.Equal(t, s.ReferenceData.Directory, filepath.Join(dir.Path(), "data"))
			assert.Equal(t, s.ReferenceData.Irradiance, filepath.Join(dir.Path(), "data", "irradiance.csv"))
			assert.Equal(t, s.ApplianceCalibrationScalar, 1.2)

			// unset lighting values keep their defaults
			assert.Equal(t, s.Lighting.ThresholdMean, 55.0)
			assert.Equal(t, s.Lighting.ThresholdStdDev, lighting.DefaultThresholdStdDev)
			assert.Equal(t, s.Lighting.CalibrationScalar, lighting.DefaultCalibrationScalar)

			assert.Assert(t, is.Len(s.Appliances, 2))
			assert.Equal(t, s.Appliances[0].Kind(), appliance.Cold)
			assert.Equal(t, s.Appliances[0].AnnualEnergy(), 300.0)
			assert.Equal(t, s.Appliances[1].Kind(), appliance.Television)
			assert.Equal(t, s.Appliances[1].Profile().Name(), "ACT_TV")
			assert.Equal(t, s.Appliances[1].AverageActivityProbability(), 0.25)

			dwellings, err := s.Expand()
			assert.NilError(t, err)
			assert.Assert(t, is.Len(dwellings, 4))

			flat := dwellings[0]
			assert.Equal(t, flat.ID.String(), "9a1e4c3e-5a37-4c6b-9d5e-3f0c3a1b2c4d")
			assert.Equal(t, flat.StartDayOfWeek, series.Monday)
			assert.DeepEqual(t, flat.Bulbs, []float64{60, 60, 100})
			assert.Assert(t, is.Len(flat.Appliances, 2))
			assert.Equal(t, flat.ApplianceCalibrationScalar, 1.2)

			for _, d := range dwellings[1:] {
				assert.Equal(t, d.Name, "estate")
				assert.Equal(t, d.StartDayOfWeek, series.Sunday)
				assert.Equal(t, d.Occupants, 4)
			}
			assert.Assert(t, dwellings[1].ID != dwellings[2].ID, "each replicated dwelling gets its own id")
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := fs.NewDir(t, "scenario",
		fs.WithFile("unknown-field.yaml", "seeds: 4\n"),
		fs.WithFile("bad-kind.yaml", "appliances:\n  - name: a\n    kind: toaster\n"),
		fs.WithFile("bad-kind.toml", "[[appliances]]\nname = \"a\"\nkind = \"toaster\"\n"),
		fs.WithFile("unknown-field.toml", "seeds = 4\n"),
		fs.WithFile("unknown-appliance-field.toml", "[[appliances]]\nname = \"a\"\nratedpowr = 5\n"),
		fs.WithFile("scenario.json", "{}"),
	)

	for _, name := range []string{"unknown-field.yaml", "bad-kind.yaml", "bad-kind.toml", "unknown-field.toml", "unknown-appliance-field.toml", "scenario.json"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(dir.Join(name))
			assert.Assert(t, errors.Is(err, series.ErrConfiguration), "got %v", err)
		})
	}

	_, err := Load(dir.Join("missing.yaml"))
	assert.Assert(t, err != nil)
}

func TestExpandErrors(t *testing.T) {
	fridge, err := appliance.NewDefinition(appliance.DefinitionParams{Name: "fridge", Kind: "cold", MeanCycleLength: 18, CyclesPerYear: 5890, AnnualEnergy: 300})
	assert.NilError(t, err)

	testCases := []struct {
		name     string
		scenario Scenario
	}{
		{name: "undefined appliance", scenario: Scenario{Dwellings: []DwellingParams{{Occupants: 1, Appliances: []string{"kettle"}}}}},
		{name: "duplicate definition", scenario: Scenario{Appliances: []*appliance.Definition{fridge, fridge}}},
		{name: "id with count", scenario: Scenario{Dwellings: []DwellingParams{{ID: "9a1e4c3e-5a37-4c6b-9d5e-3f0c3a1b2c4d", Count: 2, Occupants: 1}}}},
		{name: "bad id", scenario: Scenario{Dwellings: []DwellingParams{{ID: "not-a-uuid", Occupants: 1}}}},
		{name: "bad day", scenario: Scenario{Dwellings: []DwellingParams{{Occupants: 1, StartDayOfWeek: 8}}}},
		{name: "no occupants", scenario: Scenario{Dwellings: []DwellingParams{{Occupants: 0}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.scenario.Expand()
			assert.Assert(t, errors.Is(err, series.ErrConfiguration), "got %v", err)
		})
	}
}
