// Package station selects and loads per-station bottom-pressure
// measurement files and assembles them into one continuous, cleaned
// hourly depth series per station.
package station

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sample is one raw pressure observation as decoded from a
// measurement file.
type Sample struct {
	Time         time.Time
	PressurePSIA float64
}

// SampleReader decodes the raw (timestamp, pressure) samples from a
// single measurement file. Decoding of the native scientific-array
// format lives behind this interface; a NetCDF-backed reader can be
// plugged in without touching the loader.
type SampleReader interface {
	ReadSamples(path string) ([]Sample, error)
}

// CSVReader reads measurement files with "time,pressure_psia" rows,
// timestamps in RFC 3339. Rows that fail to parse are skipped, the
// same way blank or NA rows are.
type CSVReader struct{}

// ReadSamples decodes every parseable sample from the file.
func (CSVReader) ReadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var samples []Sample
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if len(record) < 2 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
		if err != nil {
			// Header row or malformed timestamp.
			continue
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			continue
		}
		samples = append(samples, Sample{Time: ts.UTC(), PressurePSIA: p})
	}
	return samples, nil
}
