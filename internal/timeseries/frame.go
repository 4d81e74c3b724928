package timeseries

import (
	"math"
	"time"
)

// Frame is an aligned three-column dataset: one row per timestamp with
// both station depths and the differential value. NaN marks a missing
// differential (a spiked hour); station columns are always present
// because alignment is an inner join.
type Frame struct {
	Times        []time.Time
	DepthA       []float64
	DepthB       []float64
	Differential []float64
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Times)
}

// DifferentialSeries returns the frame's differential column as a
// series sharing the frame's backing arrays.
func (f *Frame) DifferentialSeries() *Series {
	return &Series{Times: f.Times, Values: f.Differential}
}

// RebaseDifferential shifts the frame's differential column by the
// given threshold so the historical reference sits at zero. Station
// depth columns are untouched.
func (f *Frame) RebaseDifferential(threshold float64) {
	for i, v := range f.Differential {
		if !math.IsNaN(v) {
			f.Differential[i] = v - threshold
		}
	}
}
