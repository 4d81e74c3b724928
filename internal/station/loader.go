package station

import (
	"errors"
	"fmt"
	"time"

	"github.com/oceanobs/bprdiff/internal/despike"
	"github.com/oceanobs/bprdiff/internal/log"
	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// ErrNoData indicates that a station produced no usable observations
// for the requested analysis window.
var ErrNoData = errors.New("no data available")

// Loader assembles one cleaned hourly depth series per station. Files
// are decoded one at a time and reduced to hourly means before the
// next file is touched, so peak memory is bounded by a single file's
// raw samples rather than the whole multi-year dataset.
type Loader struct {
	Reader     SampleReader
	CadenceTag string

	// Pressure-to-depth affine transform, applied per sample before
	// any aggregation: depth_m = (psia - PressureOffsetPSIA) * DepthPerPSIA.
	PressureOffsetPSIA float64
	DepthPerPSIA       float64

	Spike despike.Params
}

// Load produces the station's cleaned hourly series covering the
// half-open window [start, end). A file that fails to decode is
// logged and skipped; only a window with no usable data at all is an
// error.
func (l *Loader) Load(name, dir string, start, end time.Time) (*timeseries.Series, error) {
	files, err := SelectFiles(dir, start, end, l.CadenceTag)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", name, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("station %s: no files cover %s to %s: %w",
			name, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoData)
	}
	log.Infof("%s: loading %d files", name, len(files))

	var chunks []*timeseries.Series
	for _, f := range files {
		samples, err := l.Reader.ReadSamples(f)
		if err != nil {
			// One corrupt file must not abort the whole load.
			log.Warnf("%s: skipping unreadable file %s: %v", name, f, err)
			continue
		}
		hourly := l.hourlyDepths(samples, start, end)
		if hourly.Len() == 0 {
			continue
		}
		chunks = append(chunks, hourly)
	}

	merged := timeseries.Merge(chunks)
	if merged.Len() == 0 {
		return nil, fmt.Errorf("station %s: no samples inside %s to %s: %w",
			name, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoData)
	}
	log.Infof("%s: %d hourly observations", name, merged.Len())

	cleaned, flagged := despike.Filter(merged, l.Spike)
	if flagged > 0 {
		log.Infof("%s: removed %d spikes (%.2f%%)",
			name, flagged, 100*float64(flagged)/float64(cleaned.Len()))
	}
	return cleaned, nil
}

// hourlyDepths converts one file's samples to depth and aggregates
// them to hourly means, dropping samples outside the analysis window.
func (l *Loader) hourlyDepths(samples []Sample, start, end time.Time) *timeseries.Series {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	var hours []time.Time

	for _, s := range samples {
		if s.Time.Before(start) || !s.Time.Before(end) {
			continue
		}
		h := timeseries.HourFloor(s.Time)
		if counts[h] == 0 {
			hours = append(hours, h)
		}
		sums[h] += (s.PressurePSIA - l.PressureOffsetPSIA) * l.DepthPerPSIA
		counts[h]++
	}

	values := make([]float64, len(hours))
	for i, h := range hours {
		values[i] = sums[h] / float64(counts[h])
	}
	return &timeseries.Series{Times: hours, Values: values}
}
