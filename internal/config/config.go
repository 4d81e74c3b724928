// Package config defines the explicit configuration object passed into
// every pipeline stage. Defaults mirror the Axial Seamount deployment;
// a YAML file and BPRDIFF_* environment variables can override them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DateFormat is the calendar-date layout used for window bounds in
// YAML files and environment variables.
const DateFormat = "2006-01-02"

// Sign conventions for the differential signal.
const (
	// ConventionUplift reports -(depthB - depthA): positive and
	// increasing values mean inflation (uplift) at station B relative
	// to station A. This matches the field team's geophysical
	// convention and is the default.
	ConventionUplift = "uplift"

	// ConventionDepth reports the raw depth difference depthB - depthA.
	ConventionDepth = "depth"
)

// Station identifies one bottom-pressure recorder and the directory
// holding its measurement files.
type Station struct {
	Name    string `yaml:"name"`
	DataDir string `yaml:"data_dir"`
}

// Config holds every tunable of the pipeline. No stage reads global
// state; everything flows through here.
type Config struct {
	// StationA is the reference (eastern caldera) station; StationB is
	// the central caldera station the differential is computed against.
	StationA Station
	StationB Station

	// Analysis window, half-open [Start, End).
	Start time.Time
	End   time.Time

	// CadenceTag is the sampling-cadence marker a filename must carry
	// to be selected (e.g., "15s"). Files with other cadences in the
	// same directory are excluded.
	CadenceTag string

	// Pressure-to-depth affine transform: depth_m = (psia - PressureOffsetPSIA) * DepthPerPSIA.
	PressureOffsetPSIA float64
	DepthPerPSIA       float64

	// Spike filter tuning.
	SpikeWindowHours      int
	StationThreshold      float64
	DifferentialThreshold float64

	// SignConvention is ConventionUplift or ConventionDepth.
	SignConvention string

	// Historical reference windows around the known deformation event,
	// half-open, applied to the daily differential.
	PreEventStart  time.Time
	PreEventEnd    time.Time
	PostEventStart time.Time
	PostEventEnd   time.Time

	// Rebase shifts the exported differential columns so the pre-event
	// threshold sits at zero.
	Rebase bool

	// Output artifacts.
	OutputDir  string
	SQLitePath string // empty disables the SQLite export
}

// Default returns the configuration matching the reference deployment:
// MJ03E/MJ03F 15-second BPR data, 2015 through the present analysis
// window, and the 2015-04-24 eruption as the reference event.
func Default() *Config {
	return &Config{
		StationA:              Station{Name: "MJ03E", DataDir: "data/MJ03E"},
		StationB:              Station{Name: "MJ03F", DataDir: "data/MJ03F"},
		Start:                 time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		End:                   time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		CadenceTag:            "15s",
		PressureOffsetPSIA:    14.7,
		DepthPerPSIA:          0.670,
		SpikeWindowHours:      24,
		StationThreshold:      5.0,
		DifferentialThreshold: 3.5,
		SignConvention:        ConventionUplift,
		PreEventStart:         time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		PreEventEnd:           time.Date(2015, 4, 24, 0, 0, 0, 0, time.UTC),
		PostEventStart:        time.Date(2015, 4, 24, 0, 0, 0, 0, time.UTC),
		PostEventEnd:          time.Date(2015, 6, 2, 0, 0, 0, 0, time.UTC),
		OutputDir:             "outputs",
	}
}

// yamlConfig is the on-disk YAML shape; dates are calendar-date
// strings and are converted during Load.
type yamlConfig struct {
	StationA              *Station `yaml:"station_a,omitempty"`
	StationB              *Station `yaml:"station_b,omitempty"`
	Start                 string   `yaml:"start,omitempty"`
	End                   string   `yaml:"end,omitempty"`
	CadenceTag            string   `yaml:"cadence_tag,omitempty"`
	SpikeWindowHours      int      `yaml:"spike_window_hours,omitempty"`
	StationThreshold      *float64 `yaml:"station_threshold,omitempty"`
	DifferentialThreshold *float64 `yaml:"differential_threshold,omitempty"`
	SignConvention        string   `yaml:"sign_convention,omitempty"`
	PreEventStart         string   `yaml:"pre_event_start,omitempty"`
	PreEventEnd           string   `yaml:"pre_event_end,omitempty"`
	PostEventStart        string   `yaml:"post_event_start,omitempty"`
	PostEventEnd          string   `yaml:"post_event_end,omitempty"`
	Rebase                *bool    `yaml:"rebase,omitempty"`
	OutputDir             string   `yaml:"output_dir,omitempty"`
	SQLitePath            string   `yaml:"sqlite_path,omitempty"`
}

// Load returns the default configuration overlaid with values from the
// given YAML file. An empty filename returns the defaults untouched.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if yc.StationA != nil {
		cfg.StationA = *yc.StationA
	}
	if yc.StationB != nil {
		cfg.StationB = *yc.StationB
	}
	if yc.CadenceTag != "" {
		cfg.CadenceTag = yc.CadenceTag
	}
	if yc.SpikeWindowHours != 0 {
		cfg.SpikeWindowHours = yc.SpikeWindowHours
	}
	// Pointer fields so an explicit zero threshold (valid: flag on any
	// deviation from a flat window) is distinguishable from an absent key.
	if yc.StationThreshold != nil {
		cfg.StationThreshold = *yc.StationThreshold
	}
	if yc.DifferentialThreshold != nil {
		cfg.DifferentialThreshold = *yc.DifferentialThreshold
	}
	if yc.SignConvention != "" {
		cfg.SignConvention = yc.SignConvention
	}
	if yc.Rebase != nil {
		cfg.Rebase = *yc.Rebase
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.SQLitePath != "" {
		cfg.SQLitePath = yc.SQLitePath
	}

	for _, d := range []struct {
		value string
		dst   *time.Time
	}{
		{yc.Start, &cfg.Start},
		{yc.End, &cfg.End},
		{yc.PreEventStart, &cfg.PreEventStart},
		{yc.PreEventEnd, &cfg.PreEventEnd},
		{yc.PostEventStart, &cfg.PostEventStart},
		{yc.PostEventEnd, &cfg.PostEventEnd},
	} {
		if d.value == "" {
			continue
		}
		t, err := time.Parse(DateFormat, d.value)
		if err != nil {
			return nil, fmt.Errorf("parsing config date %q: %w", d.value, err)
		}
		*d.dst = t.UTC()
	}

	return cfg, nil
}

// ApplyEnv overlays BPRDIFF_* environment variables onto the
// configuration, loading a .env file first if one exists: data
// directories, output paths, the analysis window, the spike
// thresholds, and the sign convention.
func (c *Config) ApplyEnv() error {
	// Load .env file if exists
	_ = godotenv.Load()

	if v := os.Getenv("BPRDIFF_DATA_DIR_A"); v != "" {
		c.StationA.DataDir = v
	}
	if v := os.Getenv("BPRDIFF_DATA_DIR_B"); v != "" {
		c.StationB.DataDir = v
	}
	if v := os.Getenv("BPRDIFF_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("BPRDIFF_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("BPRDIFF_SIGN_CONVENTION"); v != "" {
		c.SignConvention = v
	}
	for _, d := range []struct {
		env string
		dst *float64
	}{
		{"BPRDIFF_STATION_THRESHOLD", &c.StationThreshold},
		{"BPRDIFF_DIFFERENTIAL_THRESHOLD", &c.DifferentialThreshold},
	} {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", d.env, v, err)
		}
		*d.dst = f
	}
	for _, d := range []struct {
		env string
		dst *time.Time
	}{
		{"BPRDIFF_START", &c.Start},
		{"BPRDIFF_END", &c.End},
	} {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		t, err := time.Parse(DateFormat, v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", d.env, v, err)
		}
		*d.dst = t.UTC()
	}
	return nil
}

// Validate checks the configuration for contradictions before any
// stage runs.
func (c *Config) Validate() error {
	if c.StationA.DataDir == "" || c.StationB.DataDir == "" {
		return fmt.Errorf("both station data directories must be set")
	}
	if !c.End.After(c.Start) {
		return fmt.Errorf("analysis window end %s must be after start %s",
			c.End.Format(DateFormat), c.Start.Format(DateFormat))
	}
	if c.SpikeWindowHours < 1 {
		return fmt.Errorf("spike window must be at least 1 hour, got %d", c.SpikeWindowHours)
	}
	if c.StationThreshold < 0 || c.DifferentialThreshold < 0 {
		return fmt.Errorf("spike thresholds must be non-negative")
	}
	if c.SignConvention != ConventionUplift && c.SignConvention != ConventionDepth {
		return fmt.Errorf("unsupported sign convention: %s. Use %q or %q",
			c.SignConvention, ConventionUplift, ConventionDepth)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must be set")
	}
	return nil
}
