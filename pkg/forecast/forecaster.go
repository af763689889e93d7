// Package forecast defines the boundary between the evaluation core and the
// forecasting models behind it. The core only depends on the declared output
// shape: one forecast value per series per horizon step.
package forecast

import (
	"context"
	"time"

	"github.com/ettlab/ettcast/pkg/frame"
)

// Freq tags the sampling frequency of a series for models that need it,
// e.g. "h" for hourly or "15m" for quarter-hour data.
type Freq string

const (
	FreqHourly    Freq = "h"
	FreqQuarterly Freq = "15m"
	FreqDaily     Freq = "d"
)

// Result is rectangular forecast output: Values[i][j] is the forecast for
// SeriesIDs[i] at j steps past Anchor. It feeds dataset.FromForecast directly.
type Result struct {
	SeriesIDs []string
	Values    [][]float64
	Anchor    time.Time
	Interval  time.Duration
}

// Forecaster is a model that learns from a training view and forecasts a fixed
// number of steps past its end. Fit must be called before Predict. Both take a
// context because model calls may be long-running or remote.
type Forecaster interface {
	Fit(ctx context.Context, train *frame.Frame) error
	Predict(ctx context.Context, horizon int) (*Result, error)
}
