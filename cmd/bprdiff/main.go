package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/oceanobs/bprdiff/internal/config"
	"github.com/oceanobs/bprdiff/internal/log"
	"github.com/oceanobs/bprdiff/internal/uplift"
)

const version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration file (defaults apply if omitted)")
	dataA := flag.String("data-a", "", "Data directory for the reference station (overrides config)")
	dataB := flag.String("data-b", "", "Data directory for the second station (overrides config)")
	start := flag.String("start", "", "Analysis window start, YYYY-MM-DD (overrides config)")
	end := flag.String("end", "", "Analysis window end, YYYY-MM-DD, exclusive (overrides config)")
	output := flag.String("output", "", "Output directory for exported tables (overrides config)")
	sqlitePath := flag.String("sqlite", "", "Optional SQLite database path for exported tables")
	rebase := flag.Bool("rebase", false, "Rebase exported differential so the pre-event threshold sits at zero")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bprdiff %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*cfgFile, *dataA, *dataB, *start, *end, *output, *sqlitePath, *rebase)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	log.Infof("differential uplift analysis: %s vs %s, %s to %s, %s convention",
		cfg.StationA.Name, cfg.StationB.Name,
		cfg.Start.Format(config.DateFormat), cfg.End.Format(config.DateFormat),
		cfg.SignConvention)

	result, err := uplift.Run(cfg)
	if err != nil {
		log.Errorf("Pipeline error: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Pre-event threshold:  %.3f m\n", result.Reference.Threshold)
	fmt.Printf("Post-event trough:    %.3f m\n", result.Reference.Trough)
	fmt.Printf("Deflation magnitude:  %.3f m\n", result.Reference.Deflation)
	fmt.Printf("Current offset:       %+.3f m\n", result.Reference.CurrentOffset)
}

func loadConfig(cfgFile, dataA, dataB, start, end, output, sqlitePath string, rebase bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Flags win over file and environment.
	if dataA != "" {
		cfg.StationA.DataDir = dataA
	}
	if dataB != "" {
		cfg.StationB.DataDir = dataB
	}
	if output != "" {
		cfg.OutputDir = output
	}
	if sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	if rebase {
		cfg.Rebase = true
	}
	if start != "" {
		t, err := time.Parse(config.DateFormat, start)
		if err != nil {
			return nil, fmt.Errorf("parsing -start: %w", err)
		}
		cfg.Start = t.UTC()
	}
	if end != "" {
		t, err := time.Parse(config.DateFormat, end)
		if err != nil {
			return nil, fmt.Errorf("parsing -end: %w", err)
		}
		cfg.End = t.UTC()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
