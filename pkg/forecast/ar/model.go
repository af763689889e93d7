// Package ar implements a per-series autoregressive forecasting model fitted by
// ordinary least squares. Each series is regressed on its own p most recent
// lags; multi-step forecasts are produced by feeding predictions back in.
package ar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ettlab/ettcast/pkg/forecast"
	"github.com/ettlab/ettcast/pkg/frame"
)

var (
	ErrNotFitted    = errors.New("model has not been fitted")
	ErrTooFewPoints = errors.New("not enough data points for the requested order")
	ErrSingularFit  = errors.New("lag matrix is singular")
)

const defaultOrder = 24

type seriesFit struct {
	intercept float64
	coefs     []float64 // coefs[0] weighs the most recent lag
	context   []float64 // last p observations of the training view, oldest first
}

type Model struct {
	order           int
	includeConstant bool

	fits     map[string]*seriesFit
	ids      []string
	anchor   time.Time
	interval time.Duration
}

func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		order:           defaultOrder,
		includeConstant: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit estimates AR coefficients for every series in train. The training view
// must hold at least 2p+1 points so the regression has as many rows as unknowns.
func (m *Model) Fit(_ context.Context, train *frame.Frame) error {
	n := train.Len()
	if n < 2*m.order+1 {
		return fmt.Errorf("%w: %d points, order %d needs %d", ErrTooFewPoints, n, m.order, 2*m.order+1)
	}

	interval := train.Timestamps()[1].Sub(train.Timestamps()[0])

	m.fits = make(map[string]*seriesFit)
	m.ids = train.SeriesNames()
	m.anchor = train.End().Add(interval)
	m.interval = interval

	for _, id := range m.ids {
		values, _ := train.Series(id)
		fit, err := fitSeries(values, m.order, m.includeConstant)
		if err != nil {
			return fmt.Errorf("fitting series %q: %w", id, err)
		}
		m.fits[id] = fit
	}
	return nil
}

// Predict forecasts horizon steps past the end of the training view for every
// fitted series, in SeriesNames order.
func (m *Model) Predict(_ context.Context, horizon int) (*forecast.Result, error) {
	if m.fits == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	values := make([][]float64, len(m.ids))
	for i, id := range m.ids {
		values[i] = m.fits[id].forecast(horizon)
	}
	return &forecast.Result{
		SeriesIDs: m.ids,
		Values:    values,
		Anchor:    m.anchor,
		Interval:  m.interval,
	}, nil
}

func fitSeries(values []float64, p int, includeConstant bool) (*seriesFit, error) {
	rows := len(values) - p
	cols := p
	if includeConstant {
		cols++
	}

	// Row t regresses values[t+p] on the p observations before it, most
	// recent lag in the first column.
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for t := 0; t < rows; t++ {
		for lag := 0; lag < p; lag++ {
			x.Set(t, lag, values[t+p-1-lag])
		}
		if includeConstant {
			x.Set(t, p, 1)
		}
		y.SetVec(t, values[t+p])
	}

	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	fit := &seriesFit{
		coefs:   make([]float64, p),
		context: append([]float64(nil), values[len(values)-p:]...),
	}
	for lag := 0; lag < p; lag++ {
		fit.coefs[lag] = beta.AtVec(lag)
	}
	if includeConstant {
		fit.intercept = beta.AtVec(p)
	}
	return fit, nil
}

func (f *seriesFit) forecast(horizon int) []float64 {
	window := append([]float64(nil), f.context...)
	out := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		next := f.intercept
		for lag, c := range f.coefs {
			next += c * window[len(window)-1-lag]
		}
		out[step] = next
		window = append(window[1:], next)
	}
	return out
}
