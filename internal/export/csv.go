// Package export writes the pipeline's hourly and daily differential
// frames as CSV tables and, optionally, to a SQLite database. Both
// artifacts are overwritten wholesale on every run.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// WriteCSV writes a frame to filename with one row per timestamp and
// columns {time, depth_<a>_m, depth_<b>_m, differential_m}. Missing
// values are written as empty fields.
func WriteCSV(filename string, f *timeseries.Frame, stationA, stationB string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"time",
		fmt.Sprintf("depth_%s_m", stationA),
		fmt.Sprintf("depth_%s_m", stationB),
		"differential_m",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range f.Times {
		record := []string{
			t.UTC().Format(time.RFC3339),
			formatValue(f.DepthA[i]),
			formatValue(f.DepthB[i]),
			formatValue(f.Differential[i]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatValue(v float64) string {
	if v != v { // NaN
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
