package uplift

import (
	"fmt"
	"time"

	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// Window is a half-open [Start, End) calendar interval used to
// restrict the daily differential around the reference event.
type Window struct {
	Start time.Time
	End   time.Time
}

// Reference is the diagnostic report computed against the known
// historical deformation event. It never mutates the exported frames;
// rebasing is a separate, explicit step.
type Reference struct {
	// Threshold is the pre-event peak of the daily differential, the
	// value the signal had to reach before the reference eruption.
	Threshold float64

	// Trough is the post-event minimum, the deflated state after the
	// eruption.
	Trough float64

	// Deflation is Threshold - Trough, always a positive magnitude.
	Deflation float64

	// CurrentOffset is the series' last daily value minus Threshold,
	// signed: negative means the signal still sits below the level
	// that preceded the reference eruption.
	CurrentOffset float64

	// Rebased reports whether the values above are expressed relative
	// to Threshold = 0.
	Rebased bool
}

// ComputeReference derives the threshold report from the daily
// differential: the pre-event peak, the post-event trough, the implied
// deflation magnitude, and where the series currently sits relative to
// the threshold.
func ComputeReference(daily *timeseries.Frame, pre, post Window) (*Reference, error) {
	diff := daily.DifferentialSeries()

	threshold, ok := diff.Window(pre.Start, pre.End).Max()
	if !ok {
		return nil, fmt.Errorf("pre-event window %s to %s contains no daily differential values",
			pre.Start.Format("2006-01-02"), pre.End.Format("2006-01-02"))
	}

	trough, ok := diff.Window(post.Start, post.End).Min()
	if !ok {
		return nil, fmt.Errorf("post-event window %s to %s contains no daily differential values",
			post.Start.Format("2006-01-02"), post.End.Format("2006-01-02"))
	}

	_, last, ok := diff.Last()
	if !ok {
		return nil, fmt.Errorf("daily differential contains no values")
	}

	return &Reference{
		Threshold:     threshold,
		Trough:        trough,
		Deflation:     threshold - trough,
		CurrentOffset: last - threshold,
	}, nil
}

// Rebase re-expresses the report relative to Threshold = 0. Deflation
// and CurrentOffset are threshold-relative already and keep their
// values.
func (r *Reference) Rebase() *Reference {
	return &Reference{
		Threshold:     0,
		Trough:        r.Trough - r.Threshold,
		Deflation:     r.Deflation,
		CurrentOffset: r.CurrentOffset,
		Rebased:       true,
	}
}

func (r *Reference) String() string {
	mode := "absolute"
	if r.Rebased {
		mode = "rebased to threshold"
	}
	return fmt.Sprintf(
		"threshold %.3f m, trough %.3f m, deflation %.3f m, current offset %+.3f m (%s)",
		r.Threshold, r.Trough, r.Deflation, r.CurrentOffset, mode)
}
