package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of the non-missing values, or NaN
// if every value is missing.
func Mean(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	return stat.Mean(present, nil)
}

// Median returns the median of the non-missing values, averaging the
// two middle values for even-length input, or NaN if every value is
// missing.
func Median(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	n := len(present)
	if n%2 == 1 {
		return present[n/2]
	}
	return (present[n/2-1] + present[n/2]) / 2
}

// Max returns the largest non-missing value in the series.
func (s *Series) Max() (float64, bool) {
	max, ok := math.Inf(-1), false
	for _, v := range s.Values {
		if !math.IsNaN(v) && v > max {
			max, ok = v, true
		}
	}
	if !ok {
		return math.NaN(), false
	}
	return max, true
}

// Min returns the smallest non-missing value in the series.
func (s *Series) Min() (float64, bool) {
	min, ok := math.Inf(1), false
	for _, v := range s.Values {
		if !math.IsNaN(v) && v < min {
			min, ok = v, true
		}
	}
	if !ok {
		return math.NaN(), false
	}
	return min, true
}

// HourFloor truncates a timestamp to the start of its hour.
func HourFloor(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// DayFloor truncates a timestamp to the start of its calendar day.
func DayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
