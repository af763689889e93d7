// Package frame holds aligned multivariate time series data. A Frame pairs one
// shared, strictly increasing timestamp index with any number of named float64
// columns of the same length. Frames are treated as immutable: every operation
// returns a fresh instance.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrShapeMismatch    = errors.New("series length does not match timestamp count")
	ErrDuplicateKey     = errors.New("duplicate series identifier")
	ErrNonMonotonicTime = errors.New("timestamps are not strictly increasing")
)

type Frame struct {
	timestamps []time.Time
	series     map[string][]float64
}

// New validates and copies its inputs. Every series must have exactly
// len(timestamps) values and timestamps must be strictly increasing.
func New(timestamps []time.Time, series map[string][]float64) (*Frame, error) {
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, fmt.Errorf("%w: index %d (%s) does not follow %s",
				ErrNonMonotonicTime, i, timestamps[i], timestamps[i-1])
		}
	}

	f := &Frame{
		timestamps: append([]time.Time(nil), timestamps...),
		series:     make(map[string][]float64, len(series)),
	}
	for name, values := range series {
		if len(values) != len(timestamps) {
			return nil, fmt.Errorf("%w: series %q has %d values, want %d",
				ErrShapeMismatch, name, len(values), len(timestamps))
		}
		f.series[name] = append([]float64(nil), values...)
	}
	return f, nil
}

func (f *Frame) Len() int {
	return len(f.timestamps)
}

// Timestamps returns the shared index. Callers must not modify the result.
func (f *Frame) Timestamps() []time.Time {
	return f.timestamps
}

// SeriesNames returns all series identifiers, sorted for deterministic output.
func (f *Frame) SeriesNames() []string {
	names := make([]string, 0, len(f.series))
	for name := range f.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series returns the values of one column. The second result is false when no
// series with the given name exists. Callers must not modify the result.
func (f *Frame) Series(name string) ([]float64, bool) {
	values, ok := f.series[name]
	return values, ok
}

// Start returns the first timestamp, End the last. Both are zero for an empty frame.
func (f *Frame) Start() time.Time {
	if len(f.timestamps) == 0 {
		return time.Time{}
	}
	return f.timestamps[0]
}

func (f *Frame) End() time.Time {
	if len(f.timestamps) == 0 {
		return time.Time{}
	}
	return f.timestamps[len(f.timestamps)-1]
}

// SliceByTime returns a new frame with only the rows whose timestamp satisfies
// pred. The mask is applied index-for-index to every column, so alignment is
// preserved regardless of the values.
func (f *Frame) SliceByTime(pred func(time.Time) bool) *Frame {
	mask := make([]bool, len(f.timestamps))
	n := 0
	for i, ts := range f.timestamps {
		if pred(ts) {
			mask[i] = true
			n++
		}
	}

	out := &Frame{
		timestamps: make([]time.Time, 0, n),
		series:     make(map[string][]float64, len(f.series)),
	}
	for i, keep := range mask {
		if keep {
			out.timestamps = append(out.timestamps, f.timestamps[i])
		}
	}
	for name, values := range f.series {
		filtered := make([]float64, 0, n)
		for i, keep := range mask {
			if keep {
				filtered = append(filtered, values[i])
			}
		}
		out.series[name] = filtered
	}
	return out
}

// AddSeries returns a new frame with one extra column, leaving the receiver
// untouched. Merging forecasts from several runs into one frame goes through
// here, so identifier collisions surface as ErrDuplicateKey.
func (f *Frame) AddSeries(name string, values []float64) (*Frame, error) {
	if _, exists := f.series[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	if len(values) != len(f.timestamps) {
		return nil, fmt.Errorf("%w: series %q has %d values, want %d",
			ErrShapeMismatch, name, len(values), len(f.timestamps))
	}

	out := &Frame{
		timestamps: f.timestamps,
		series:     make(map[string][]float64, len(f.series)+1),
	}
	for n, v := range f.series {
		out.series[n] = v
	}
	out.series[name] = append([]float64(nil), values...)
	return out, nil
}

// Tail returns a new frame with the last k rows, or all rows if k exceeds the
// frame length. Useful for aligning ground truth with a forecast of length k.
func (f *Frame) Tail(k int) *Frame {
	if k < 0 {
		k = 0
	}
	if k > len(f.timestamps) {
		k = len(f.timestamps)
	}
	cut := len(f.timestamps) - k

	out := &Frame{
		timestamps: append([]time.Time(nil), f.timestamps[cut:]...),
		series:     make(map[string][]float64, len(f.series)),
	}
	for name, values := range f.series {
		out.series[name] = append([]float64(nil), values[cut:]...)
	}
	return out
}
