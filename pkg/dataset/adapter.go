// Package dataset converts between external dataset representations and
// frame.Frame, in both directions: per-series records in, forecast output back.
package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/ettlab/ettcast/pkg/frame"
)

var (
	ErrNoRecords                 = errors.New("no records")
	ErrInconsistentSeriesLength  = errors.New("record length differs from first record")
	ErrInconsistentStart         = errors.New("record start time differs from first record")
	ErrRaggedForecast            = errors.New("forecast rows have unequal lengths")
	ErrSeriesCountMismatch       = errors.New("forecast row count does not match series id count")
	ErrForecastIndexMismatch     = errors.New("indexed forecasts do not share one timestamp index")
	ErrForecastValueCountInvalid = errors.New("indexed forecast values do not match its index length")
)

// Record is one series of the external dataset: an identifier, the timestamp of
// its first observation, the sampling interval, and the observed values.
type Record struct {
	SeriesID string
	Start    time.Time
	Interval time.Duration
	Values   []float64
}

// FromRecords builds a frame whose shared timestamp index is extrapolated from
// the first record's start time at its sampling interval. All records must
// agree on start time and length; disagreement is an error rather than silent
// misalignment.
func FromRecords(records []Record) (*frame.Frame, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	first := records[0]
	series := make(map[string][]float64, len(records))
	for _, r := range records {
		if len(r.Values) != len(first.Values) {
			return nil, fmt.Errorf("%w: series %q has %d values, first record %q has %d",
				ErrInconsistentSeriesLength, r.SeriesID, len(r.Values), first.SeriesID, len(first.Values))
		}
		if !r.Start.Equal(first.Start) {
			return nil, fmt.Errorf("%w: series %q starts at %s, first record %q at %s",
				ErrInconsistentStart, r.SeriesID, r.Start, first.SeriesID, first.Start)
		}
		if _, exists := series[r.SeriesID]; exists {
			return nil, fmt.Errorf("%w: %q", frame.ErrDuplicateKey, r.SeriesID)
		}
		series[r.SeriesID] = r.Values
	}

	timestamps := make([]time.Time, len(first.Values))
	for i := range timestamps {
		timestamps[i] = first.Start.Add(time.Duration(i) * first.Interval)
	}
	return frame.New(timestamps, series)
}

// ForecastOption adjusts how forecast output is keyed in the resulting frame.
type ForecastOption func(*forecastConfig)

type forecastConfig struct {
	prefix string
}

// WithPrefix concatenates a run prefix to every series identifier, so forecasts
// from several models can be merged into one frame without key collisions.
func WithPrefix(prefix string) ForecastOption {
	return func(c *forecastConfig) {
		c.prefix = prefix
	}
}

// FromForecast builds a frame from rectangular forecast output: row i is the
// forecast for seriesIDs[i], column j the value j steps past anchor. The first
// forecast step lands on anchor itself, matching a model asked to continue a
// series whose last observation was one interval before anchor.
func FromForecast(values [][]float64, seriesIDs []string, anchor time.Time, interval time.Duration, opts ...ForecastOption) (*frame.Frame, error) {
	var cfg forecastConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(values) != len(seriesIDs) {
		return nil, fmt.Errorf("%w: %d rows, %d ids", ErrSeriesCountMismatch, len(values), len(seriesIDs))
	}
	if len(values) == 0 {
		return nil, ErrNoRecords
	}

	horizon := len(values[0])
	series := make(map[string][]float64, len(values))
	for i, row := range values {
		if len(row) != horizon {
			return nil, fmt.Errorf("%w: row %d has %d values, row 0 has %d",
				ErrRaggedForecast, i, len(row), horizon)
		}
		id := cfg.prefix + seriesIDs[i]
		if _, exists := series[id]; exists {
			return nil, fmt.Errorf("%w: %q", frame.ErrDuplicateKey, id)
		}
		series[id] = row
	}

	timestamps := make([]time.Time, horizon)
	for j := range timestamps {
		timestamps[j] = anchor.Add(time.Duration(j) * interval)
	}
	return frame.New(timestamps, series)
}

// IndexedForecast is forecast output that carries its own timestamp index
// instead of an anchor plus step count.
type IndexedForecast struct {
	Timestamps []time.Time
	Values     []float64
}

// FromIndexedForecast builds a frame from per-series forecasts with explicit
// timestamps. Every entry must carry the identical index.
func FromIndexedForecast(forecasts map[string]IndexedForecast, opts ...ForecastOption) (*frame.Frame, error) {
	var cfg forecastConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(forecasts) == 0 {
		return nil, ErrNoRecords
	}

	var index []time.Time
	series := make(map[string][]float64, len(forecasts))
	for id, fc := range forecasts {
		if len(fc.Values) != len(fc.Timestamps) {
			return nil, fmt.Errorf("%w: series %q has %d values for %d timestamps",
				ErrForecastValueCountInvalid, id, len(fc.Values), len(fc.Timestamps))
		}
		if index == nil {
			index = fc.Timestamps
		} else if !sameIndex(index, fc.Timestamps) {
			return nil, fmt.Errorf("%w: series %q", ErrForecastIndexMismatch, id)
		}
		series[cfg.prefix+id] = fc.Values
	}
	return frame.New(index, series)
}

func sameIndex(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
