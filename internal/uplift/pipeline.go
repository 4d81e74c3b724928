package uplift

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oceanobs/bprdiff/internal/config"
	"github.com/oceanobs/bprdiff/internal/despike"
	"github.com/oceanobs/bprdiff/internal/export"
	"github.com/oceanobs/bprdiff/internal/log"
	"github.com/oceanobs/bprdiff/internal/station"
	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// Result bundles everything one pipeline invocation produces: the
// exported frames and the threshold reference report.
type Result struct {
	Hourly    *timeseries.Frame
	Daily     *timeseries.Frame
	Reference *Reference
}

// Run executes the whole pipeline for the given configuration: load
// and clean both station series, compute the differential frames,
// derive the threshold reference, optionally rebase, and write the
// CSV and SQLite artifacts. Stages run strictly in sequence and hold
// no state between runs.
func Run(cfg *config.Config) (*Result, error) {
	loader := &station.Loader{
		Reader:             station.CSVReader{},
		CadenceTag:         cfg.CadenceTag,
		PressureOffsetPSIA: cfg.PressureOffsetPSIA,
		DepthPerPSIA:       cfg.DepthPerPSIA,
		Spike: despike.Params{
			Window:    cfg.SpikeWindowHours,
			Threshold: cfg.StationThreshold,
		},
	}

	seriesA, err := loader.Load(cfg.StationA.Name, cfg.StationA.DataDir, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("loading station A: %w", err)
	}
	seriesB, err := loader.Load(cfg.StationB.Name, cfg.StationB.DataDir, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("loading station B: %w", err)
	}

	hourly, daily, err := Difference(seriesA, seriesB, cfg.SignConvention, despike.Params{
		Window:    cfg.SpikeWindowHours,
		Threshold: cfg.DifferentialThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("differencing %s and %s: %w",
			cfg.StationA.Name, cfg.StationB.Name, err)
	}
	log.Infof("differential: %d aligned hours, %d days", hourly.Len(), daily.Len())

	ref, err := ComputeReference(daily,
		Window{Start: cfg.PreEventStart, End: cfg.PreEventEnd},
		Window{Start: cfg.PostEventStart, End: cfg.PostEventEnd})
	if err != nil {
		return nil, fmt.Errorf("referencing threshold: %w", err)
	}

	if cfg.Rebase {
		hourly.RebaseDifferential(ref.Threshold)
		daily.RebaseDifferential(ref.Threshold)
		ref = ref.Rebase()
	}
	log.Infof("reference: %s", ref)

	if err := writeArtifacts(cfg, hourly, daily); err != nil {
		return nil, err
	}

	return &Result{Hourly: hourly, Daily: daily, Reference: ref}, nil
}

func writeArtifacts(cfg *config.Config, hourly, daily *timeseries.Frame) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	hourlyPath := filepath.Join(cfg.OutputDir, "differential_uplift_hourly.csv")
	if err := export.WriteCSV(hourlyPath, hourly, cfg.StationA.Name, cfg.StationB.Name); err != nil {
		return fmt.Errorf("exporting hourly frame: %w", err)
	}
	log.Infof("exported %s (%d rows)", hourlyPath, hourly.Len())

	dailyPath := filepath.Join(cfg.OutputDir, "differential_uplift_daily.csv")
	if err := export.WriteCSV(dailyPath, daily, cfg.StationA.Name, cfg.StationB.Name); err != nil {
		return fmt.Errorf("exporting daily frame: %w", err)
	}
	log.Infof("exported %s (%d rows)", dailyPath, daily.Len())

	if cfg.SQLitePath != "" {
		if err := export.WriteSQLite(cfg.SQLitePath, hourly, daily,
			cfg.StationA.Name, cfg.StationB.Name); err != nil {
			return fmt.Errorf("exporting sqlite database: %w", err)
		}
		log.Infof("exported %s", cfg.SQLitePath)
	}
	return nil
}
