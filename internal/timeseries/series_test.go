package timeseries

import (
	"math"
	"testing"
	"time"
)

func hour(h int) time.Time {
	return time.Date(2015, 1, 1, h, 0, 0, 0, time.UTC)
}

func TestMergeFirstWins(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []*Series
		expected map[int]float64 // hour offset -> value
	}{
		{
			name: "overlapping coverage keeps first-seen value",
			chunks: []*Series{
				{Times: []time.Time{hour(0), hour(1), hour(2)}, Values: []float64{1, 2, 3}},
				{Times: []time.Time{hour(2), hour(3)}, Values: []float64{99, 4}},
			},
			expected: map[int]float64{0: 1, 1: 2, 2: 3, 3: 4},
		},
		{
			name: "out-of-order chunks still merge sorted",
			chunks: []*Series{
				{Times: []time.Time{hour(5), hour(6)}, Values: []float64{50, 60}},
				{Times: []time.Time{hour(1), hour(5)}, Values: []float64{10, 77}},
			},
			expected: map[int]float64{1: 10, 5: 50, 6: 60},
		},
		{
			name:     "empty input",
			chunks:   nil,
			expected: map[int]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(tt.chunks)
			if merged.Len() != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d", len(tt.expected), merged.Len())
			}
			for i := 1; i < merged.Len(); i++ {
				if !merged.Times[i-1].Before(merged.Times[i]) {
					t.Errorf("timestamps not strictly increasing at %d", i)
				}
			}
			for i, ts := range merged.Times {
				want, ok := tt.expected[ts.Hour()]
				if !ok {
					t.Fatalf("unexpected timestamp %s", ts)
				}
				if merged.Values[i] != want {
					t.Errorf("at %s: expected %.1f, got %.1f", ts, want, merged.Values[i])
				}
			}
		})
	}
}

func TestAlign(t *testing.T) {
	a := &Series{
		Times:  []time.Time{hour(1), hour(2), hour(3)},
		Values: []float64{1, 2, 3},
	}
	b := &Series{
		Times:  []time.Time{hour(2), hour(3), hour(4)},
		Values: []float64{20, 30, 40},
	}

	times, av, bv := Align(a, b)
	if len(times) != 2 {
		t.Fatalf("expected 2 aligned timestamps, got %d", len(times))
	}
	if !times[0].Equal(hour(2)) || !times[1].Equal(hour(3)) {
		t.Errorf("expected T2,T3, got %v", times)
	}
	if av[0] != 2 || av[1] != 3 || bv[0] != 20 || bv[1] != 30 {
		t.Errorf("aligned values wrong: a=%v b=%v", av, bv)
	}
}

func TestAlignDropsMissing(t *testing.T) {
	a := &Series{
		Times:  []time.Time{hour(1), hour(2), hour(3)},
		Values: []float64{1, math.NaN(), 3},
	}
	b := &Series{
		Times:  []time.Time{hour(1), hour(2), hour(3)},
		Values: []float64{10, 20, math.NaN()},
	}

	times, _, _ := Align(a, b)
	if len(times) != 1 || !times[0].Equal(hour(1)) {
		t.Fatalf("expected only T1 to survive, got %v", times)
	}
}

func TestWindowHalfOpen(t *testing.T) {
	s := &Series{
		Times:  []time.Time{hour(0), hour(1), hour(2), hour(3)},
		Values: []float64{0, 1, 2, 3},
	}
	w := s.Window(hour(1), hour(3))
	if w.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", w.Len())
	}
	if !w.Times[0].Equal(hour(1)) || !w.Times[1].Equal(hour(2)) {
		t.Errorf("window bounds wrong: %v", w.Times)
	}
}

func TestRollingMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected []float64
		epsilon  float64
	}{
		{
			name:     "constant series",
			values:   []float64{5, 5, 5, 5, 5},
			window:   3,
			expected: []float64{5, 5, 5, 5, 5},
			epsilon:  1e-12,
		},
		{
			name:     "isolated outlier suppressed",
			values:   []float64{1, 1, 100, 1, 1},
			window:   5,
			expected: []float64{1, 1, 1, 1, 1},
			epsilon:  1e-12,
		},
		{
			name:     "missing values skipped",
			values:   []float64{2, math.NaN(), 4},
			window:   3,
			expected: []float64{2, 3, 4},
			epsilon:  1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times := make([]time.Time, len(tt.values))
			for i := range times {
				times[i] = hour(i)
			}
			s := &Series{Times: times, Values: tt.values}
			got := s.RollingMedian(tt.window)
			for i, want := range tt.expected {
				if math.Abs(got[i]-want) > tt.epsilon {
					t.Errorf("point %d: expected %.4f, got %.4f", i, want, got[i])
				}
			}
		})
	}
}

func TestLast(t *testing.T) {
	s := &Series{
		Times:  []time.Time{hour(0), hour(1), hour(2)},
		Values: []float64{1, 2, math.NaN()},
	}
	ts, v, ok := s.Last()
	if !ok || v != 2 || !ts.Equal(hour(1)) {
		t.Errorf("expected last non-missing (T1, 2), got (%s, %.1f, %v)", ts, v, ok)
	}

	empty := &Series{}
	if _, _, ok := empty.Last(); ok {
		t.Error("expected no last value for empty series")
	}
}
