// Command demandgen generates a year of one-minute demand for every dwelling in a scenario file and
// writes one CSV per dwelling.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/profile"
	"github.com/synaptecltd/demand"
	"github.com/synaptecltd/demand/output"
	"github.com/synaptecltd/demand/refdata"
	"github.com/synaptecltd/demand/scenario"
	"gopkg.in/cheggaaa/pb.v1"
)

type config struct {
	scenario   string
	out        string
	compress   bool
	workers    int
	seed       uint64
	profileDir string
}

type job struct {
	index    int
	dwelling *demand.Dwelling
}

func main() {
	var cfg config
	flag.StringVar(&cfg.scenario, "scenario", "scenario.yaml", "scenario file (.yaml, .yml or .toml)")
	flag.StringVar(&cfg.out, "out", "out", "output directory")
	flag.BoolVar(&cfg.compress, "gzip", false, "gzip output files")
	flag.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "dwellings generated in parallel")
	flag.Uint64Var(&cfg.seed, "seed", 0, "base seed, 0 keeps the scenario seed")
	flag.StringVar(&cfg.profileDir, "profile", "", "write a CPU profile to this directory")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, cfg); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config) error {
	if cfg.profileDir != "" {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.profileDir), profile.Quiet, profile.NoShutdownHook)
		defer p.Stop()
	}

	s, err := scenario.Load(cfg.scenario)
	if err != nil {
		return err
	}
	if cfg.seed != 0 {
		s.Seed = cfg.seed
	}

	ref, err := refdata.Load(s.ReferenceData.Directory, s.ReferenceData.Irradiance)
	if err != nil {
		return fmt.Errorf("reference data: %w", err)
	}

	dwellings, err := s.Expand()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.out, 0o755); err != nil {
		return err
	}
	logger.Info("generating", "dwellings", len(dwellings), "seed", s.Seed, "workers", cfg.workers)

	jobs := make(chan job, len(dwellings))
	for i, d := range dwellings {
		jobs <- job{index: i, dwelling: d}
	}
	close(jobs)

	bar := pb.New(len(dwellings))
	bar.Output = os.Stderr
	bar.Start()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []error
	)
	for w := 0; w < max(cfg.workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := generate(logger, cfg, s.Seed, j, ref); err != nil {
					mu.Lock()
					failed = append(failed, err)
					mu.Unlock()
				}
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	bar.Finish()

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d dwellings failed: %w", len(failed), len(dwellings), errors.Join(failed...))
	}
	return nil
}

// generate simulates one dwelling on its own random stream and writes its output file.
func generate(logger *slog.Logger, cfg config, seed uint64, j job, ref *demand.ReferenceData) error {
	log := logger.With("dwelling", j.dwelling.ID, "name", j.dwelling.Name)

	r := rand.New(rand.NewPCG(seed, uint64(j.index)))
	res, err := j.dwelling.Generate(r, ref)
	if err != nil {
		log.Error("dwelling failed", "error", err)
		return fmt.Errorf("dwelling %s: %w", j.dwelling.ID, err)
	}
	for _, w := range res.Warnings {
		log.Warn(w)
	}

	path, err := output.WriteFile(cfg.out, res, cfg.compress)
	if err != nil {
		return err
	}

	summary := demand.Summarise(res)
	log.Debug("dwelling written",
		"path", path,
		"totalKWh", summary.TotalEnergy,
		"lightingKWh", summary.LightingEnergy,
		"peakW", summary.PeakPower,
		"activeFraction", summary.ActiveFraction,
	)
	return nil
}
