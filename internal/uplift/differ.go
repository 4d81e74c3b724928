// Package uplift computes the differential deformation signal between
// two cleaned per-station depth series and references it against a
// known historical deformation event.
package uplift

import (
	"errors"
	"time"

	"github.com/oceanobs/bprdiff/internal/config"
	"github.com/oceanobs/bprdiff/internal/despike"
	"github.com/oceanobs/bprdiff/internal/log"
	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// ErrNoOverlap indicates the two stations share no timestamps after
// alignment, so no differential can be computed.
var ErrNoOverlap = errors.New("no overlapping timestamps between stations")

// Difference aligns the two cleaned station series on their shared
// timestamps, computes the signed differential under the given sign
// convention, re-filters the differential column at its own
// sensitivity, and returns the hourly frame plus its calendar-day
// mean aggregate.
//
// Under the uplift convention the differential is
// -(depthB - depthA) = depthA - depthB: since depth decreases when the
// seafloor rises, negating the depth difference makes positive and
// increasing values mean inflation at station B relative to station A.
// The depth convention reports the raw depthB - depthA instead. One
// convention applies to the whole run; hourly and daily stages never
// disagree.
func Difference(a, b *timeseries.Series, convention string, spike despike.Params) (*timeseries.Frame, *timeseries.Frame, error) {
	times, av, bv := timeseries.Align(a, b)
	if len(times) == 0 {
		return nil, nil, ErrNoOverlap
	}

	diff := make([]float64, len(times))
	for i := range times {
		switch convention {
		case config.ConventionDepth:
			diff[i] = bv[i] - av[i]
		default:
			diff[i] = av[i] - bv[i]
		}
	}

	diffSeries := &timeseries.Series{Times: times, Values: diff}
	cleaned, flagged := despike.Filter(diffSeries, spike)
	if flagged > 0 {
		log.Infof("differential: removed %d spikes (%.2f%%)",
			flagged, 100*float64(flagged)/float64(len(times)))
	}

	hourly := &timeseries.Frame{
		Times:        times,
		DepthA:       av,
		DepthB:       bv,
		Differential: cleaned.Values,
	}
	return hourly, dailyMeans(hourly), nil
}

// dailyMeans aggregates an hourly frame to calendar-day means. Missing
// hourly values are excluded from the day's mean, never treated as
// zero; a day whose differential hours are all missing keeps its row
// with a NaN differential.
func dailyMeans(hourly *timeseries.Frame) *timeseries.Frame {
	daily := &timeseries.Frame{}
	var da, db, dd []float64

	flush := func(day time.Time) {
		daily.Times = append(daily.Times, day)
		daily.DepthA = append(daily.DepthA, timeseries.Mean(da))
		daily.DepthB = append(daily.DepthB, timeseries.Mean(db))
		daily.Differential = append(daily.Differential, timeseries.Mean(dd))
		da, db, dd = da[:0], db[:0], dd[:0]
	}

	var current time.Time
	for i, t := range hourly.Times {
		day := timeseries.DayFloor(t)
		if i == 0 {
			current = day
		} else if !day.Equal(current) {
			flush(current)
			current = day
		}
		da = append(da, hourly.DepthA[i])
		db = append(db, hourly.DepthB[i])
		dd = append(dd, hourly.Differential[i])
	}
	if len(da) > 0 {
		flush(current)
	}
	return daily
}
