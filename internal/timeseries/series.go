// Package timeseries provides the time-indexed series type shared by the
// pipeline stages, along with the resampling, merging, and alignment
// operations the stages are built from. A NaN value marks a missing
// observation; the timestamp slot is always preserved.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"
)

// Series is a time-indexed sequence of float64 values. Timestamps are
// strictly increasing and unique once a series has been through Merge;
// NaN values represent missing observations, not zeros.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New creates a series from parallel timestamp and value slices.
func New(times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{Times: times, Values: values}, nil
}

// Len returns the number of entries in the series, including missing ones.
func (s *Series) Len() int {
	return len(s.Values)
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	times := make([]time.Time, len(s.Times))
	copy(times, s.Times)
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return &Series{Times: times, Values: values}
}

// Window restricts the series to entries with start <= t < end.
func (s *Series) Window(start, end time.Time) *Series {
	var times []time.Time
	var values []float64
	for i, t := range s.Times {
		if t.Before(start) || !t.Before(end) {
			continue
		}
		times = append(times, t)
		values = append(values, s.Values[i])
	}
	return &Series{Times: times, Values: values}
}

// Last returns the most recent non-missing entry in the series.
func (s *Series) Last() (time.Time, float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.Values[i]) {
			return s.Times[i], s.Values[i], true
		}
	}
	return time.Time{}, math.NaN(), false
}

// Merge concatenates partial series in the order given, sorts by
// timestamp, and drops duplicate timestamps keeping the first-seen
// value. Chunks from later files overlapping an earlier chunk's
// coverage therefore never overwrite already-aggregated entries.
func Merge(chunks []*Series) *Series {
	var times []time.Time
	var values []float64
	for _, c := range chunks {
		times = append(times, c.Times...)
		values = append(values, c.Values...)
	}

	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	// Stable sort keeps concatenation order among equal timestamps, so
	// "first seen wins" falls out of the duplicate drop below.
	sort.SliceStable(idx, func(a, b int) bool {
		return times[idx[a]].Before(times[idx[b]])
	})

	merged := &Series{}
	for _, i := range idx {
		n := len(merged.Times)
		if n > 0 && merged.Times[n-1].Equal(times[i]) {
			continue
		}
		merged.Times = append(merged.Times, times[i])
		merged.Values = append(merged.Values, values[i])
	}
	return merged
}

// Align inner-joins two series on timestamp. Only timestamps present
// and non-missing in both series survive. Both inputs must be sorted
// by timestamp, which Merge guarantees.
func Align(a, b *Series) (times []time.Time, av, bv []float64) {
	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		switch {
		case a.Times[i].Before(b.Times[j]):
			i++
		case b.Times[j].Before(a.Times[i]):
			j++
		default:
			if !math.IsNaN(a.Values[i]) && !math.IsNaN(b.Values[j]) {
				times = append(times, a.Times[i])
				av = append(av, a.Values[i])
				bv = append(bv, b.Values[j])
			}
			i++
			j++
		}
	}
	return times, av, bv
}

// RollingMedian computes a centered rolling median over the given
// window size in samples. Edge windows are truncated rather than
// producing missing values, so a single present sample is enough.
// Missing values are skipped; a window with no present samples yields
// NaN.
func (s *Series) RollingMedian(window int) []float64 {
	if window < 1 {
		window = 1
	}
	n := s.Len()
	out := make([]float64, n)
	buf := make([]float64, 0, window)

	for i := 0; i < n; i++ {
		lo := i - window/2
		hi := i + (window-1)/2
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		buf = buf[:0]
		for j := lo; j <= hi; j++ {
			if !math.IsNaN(s.Values[j]) {
				buf = append(buf, s.Values[j])
			}
		}
		out[i] = Median(buf)
	}
	return out
}
