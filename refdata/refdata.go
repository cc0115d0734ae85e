// Package refdata reads the survey-derived reference data (occupancy transition matrices, activity
// statistics and irradiance) from CSV files.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/synaptecltd/demand"
	"github.com/synaptecltd/demand/appliance"
	"github.com/synaptecltd/demand/occupancy"
	"github.com/synaptecltd/demand/series"
)

// File names within a reference data directory.
const (
	StartingStatesFile = "starting_states.csv" // weekend,occupants,p0..pn
	ActivityStatsFile  = "activity_stats.csv"  // weekend,activeOccupants,activity,p0..p143
)

// MatrixFile returns the name of the transition matrix file for a household size and day type.
// Rows are slot,state,p0..pn with plain (not cumulative) probabilities.
func MatrixFile(occupants int, weekend bool) string {
	if weekend {
		return fmt.Sprintf("tpm%d_we.csv", occupants)
	}
	return fmt.Sprintf("tpm%d_wd.csv", occupants)
}

// Load reads all reference data from dir and the irradiance file.
func Load(dir, irradiancePath string) (*demand.ReferenceData, error) {
	occ, err := LoadOccupancy(dir)
	if err != nil {
		return nil, err
	}

	var stats appliance.ActivityStatistics
	if err := readFile(filepath.Join(dir, ActivityStatsFile), func(r io.Reader) (err error) {
		stats, err = ReadActivityStatistics(r)
		return err
	}); err != nil {
		return nil, err
	}

	var irradiance []float64
	if err := readFile(irradiancePath, func(r io.Reader) (err error) {
		irradiance, err = ReadIrradiance(r)
		return err
	}); err != nil {
		return nil, err
	}

	return &demand.ReferenceData{Occupancy: occ, Activities: stats, Irradiance: irradiance}, nil
}

// LoadOccupancy reads the starting states and every transition matrix present in dir. Household
// sizes without both matrices are left out; simulating one is then a data error.
func LoadOccupancy(dir string) (*occupancy.Data, error) {
	data := occupancy.NewData()
	if err := readFile(filepath.Join(dir, StartingStatesFile), func(r io.Reader) error {
		return ReadStartingStates(r, data)
	}); err != nil {
		return nil, err
	}

	found := 0
	for n := 1; n <= occupancy.MaxOccupants; n++ {
		for _, weekend := range []bool{false, true} {
			path := filepath.Join(dir, MatrixFile(n, weekend))
			err := readFile(path, func(r io.Reader) error {
				m, err := ReadTransitionMatrix(r, n)
				if err != nil {
					return err
				}
				data.SetMatrix(weekend, m)
				found++
				return nil
			})
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: no transition matrices in %s", series.ErrData, dir)
	}
	return data, nil
}

// ReadStartingStates reads initial-state distributions into data.
func ReadStartingStates(r io.Reader, data *occupancy.Data) error {
	records, err := readRecords(r)
	if err != nil {
		return err
	}
	for i, record := range records {
		if len(record) < 3 {
			return fmt.Errorf("%w: starting states row %d has %d fields", series.ErrData, i+1, len(record))
		}
		weekend, err := parseBool(record[0])
		if err != nil {
			return fmt.Errorf("starting states row %d: %w", i+1, err)
		}
		occupants, err := parseInt(record[1])
		if err != nil {
			return fmt.Errorf("starting states row %d: %w", i+1, err)
		}
		probabilities, err := parseFloats(record[2:])
		if err != nil {
			return fmt.Errorf("starting states row %d: %w", i+1, err)
		}
		if err := data.SetInitialStates(weekend, occupants, probabilities); err != nil {
			return err
		}
	}
	return nil
}

// ReadTransitionMatrix reads one transition matrix, accumulating each row's probabilities.
func ReadTransitionMatrix(r io.Reader, occupants int) (*occupancy.TransitionMatrix, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	states := occupants + 1
	rows := make([][]float64, occupancy.SlotsPerDay*states)
	for i, record := range records {
		if len(record) != states+2 {
			return nil, fmt.Errorf("%w: transition matrix row %d has %d fields, expected %d", series.ErrData, i+1, len(record), states+2)
		}
		slot, err := parseInt(record[0])
		if err != nil {
			return nil, fmt.Errorf("transition matrix row %d: %w", i+1, err)
		}
		state, err := parseInt(record[1])
		if err != nil {
			return nil, fmt.Errorf("transition matrix row %d: %w", i+1, err)
		}
		if slot < 0 || slot >= occupancy.SlotsPerDay || state < 0 || state >= states {
			return nil, fmt.Errorf("%w: transition matrix row %d has slot %d state %d", series.ErrData, i+1, slot, state)
		}
		probabilities, err := parseFloats(record[2:])
		if err != nil {
			return nil, fmt.Errorf("transition matrix row %d: %w", i+1, err)
		}
		rows[slot*states+state] = occupancy.Cumulative(probabilities)
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: transition matrix for %d occupants has no row for slot %d state %d", series.ErrData, occupants, i/states, i%states)
		}
	}
	return occupancy.NewTransitionMatrix(occupants, rows)
}

// ReadActivityStatistics reads activity statistics. Activity names are upper-cased to match profile names.
func ReadActivityStatistics(r io.Reader) (appliance.ActivityStatistics, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	stats := appliance.ActivityStatistics{}
	for i, record := range records {
		if len(record) != occupancy.SlotsPerDay+3 {
			return nil, fmt.Errorf("%w: activity statistics row %d has %d fields, expected %d", series.ErrData, i+1, len(record), occupancy.SlotsPerDay+3)
		}
		weekend, err := parseBool(record[0])
		if err != nil {
			return nil, fmt.Errorf("activity statistics row %d: %w", i+1, err)
		}
		active, err := parseInt(record[1])
		if err != nil {
			return nil, fmt.Errorf("activity statistics row %d: %w", i+1, err)
		}
		probabilities, err := parseFloats(record[3:])
		if err != nil {
			return nil, fmt.Errorf("activity statistics row %d: %w", i+1, err)
		}
		key := appliance.ActivityKey{Weekend: weekend, ActiveOccupants: active, Activity: strings.ToUpper(strings.TrimSpace(record[2]))}
		if err := stats.Set(key, probabilities); err != nil {
			return nil, fmt.Errorf("activity statistics row %d: %w", i+1, err)
		}
	}
	return stats, nil
}

// ReadIrradiance reads one irradiance value (W/m2) per row from the first field.
func ReadIrradiance(r io.Reader) ([]float64, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	irradiance := make([]float64, 0, series.MinutesPerYear)
	for i, record := range records {
		v, err := parseFloat(record[0])
		if err != nil {
			return nil, fmt.Errorf("irradiance row %d: %w", i+1, err)
		}
		irradiance = append(irradiance, v)
	}
	return irradiance, nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// readRecords returns all records, dropping a leading header row.
func readRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", series.ErrData, err)
	}
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}
	return records, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, floatErr := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	_, boolErr := strconv.ParseBool(strings.TrimSpace(record[0]))
	return floatErr != nil && boolErr != nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", series.ErrData, err)
	}
	return v, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := parseFloat(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", series.ErrData, err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: %v", series.ErrData, err)
	}
	return v, nil
}
