// Package despike flags outliers in a time series using a centered
// rolling median and a scaled median-absolute-deviation test. Flagged
// values become missing (NaN); index entries are never dropped, so
// downstream alignment stays well-defined.
package despike

import (
	"math"

	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// madScale makes the MAD comparable to a standard deviation for
// normally distributed data (std ~= 1.4826 * MAD).
const madScale = 1.4826

// Params defines parameters for the rolling-median/MAD spike test
type Params struct {
	// Window is the rolling window size in samples (e.g., 24 for one
	// day of hourly data). Edge windows use fewer neighbors.
	Window int

	// Threshold is the spike threshold in MAD units. A point whose
	// deviation from its local rolling median exceeds
	// Threshold * 1.4826 * localMAD is flagged.
	Threshold float64
}

// DefaultStationParams returns the default filter parameters for a raw
// per-station hourly depth series.
func DefaultStationParams() Params {
	return Params{
		Window:    24,
		Threshold: 5.0,
	}
}

// DefaultDifferentialParams returns the default filter parameters for
// the derived differential series, which carries less inherent noise
// and so gets a tighter threshold.
func DefaultDifferentialParams() Params {
	return Params{
		Window:    24,
		Threshold: 3.5,
	}
}

// Filter returns a copy of the series with spike values replaced by
// NaN, along with the number of points flagged. Missing input values
// pass through untouched and are never counted as spikes.
//
// When the local MAD is zero (a perfectly flat window), any nonzero
// deviation is flagged regardless of threshold. That is intentional:
// an isolated value sticking out of a plateau is exactly the kind of
// instrument glitch this filter exists to remove.
func Filter(s *timeseries.Series, p Params) (*timeseries.Series, int) {
	cleaned := s.Copy()
	n := cleaned.Len()
	if n == 0 {
		return cleaned, 0
	}

	rollingMedian := cleaned.RollingMedian(p.Window)

	deviation := make([]float64, n)
	for i, v := range cleaned.Values {
		deviation[i] = math.Abs(v - rollingMedian[i])
	}

	// Local MAD estimate: rolling median of the deviations, same
	// window and edge policy as above.
	devSeries := &timeseries.Series{Times: cleaned.Times, Values: deviation}
	rollingMAD := devSeries.RollingMedian(p.Window)

	flagged := 0
	for i := range cleaned.Values {
		// NaN deviations (missing inputs) fail the comparison and
		// stay unflagged.
		if deviation[i] > p.Threshold*madScale*rollingMAD[i] {
			cleaned.Values[i] = math.NaN()
			flagged++
		}
	}
	return cleaned, flagged
}
