package ar

type ModelOption func(*Model)

// WithOrder sets the autoregressive order p, the number of lagged observations
// each prediction is regressed on.
func WithOrder(p int) ModelOption {
	return func(m *Model) {
		if p > 0 {
			m.order = p
		}
	}
}

// WithConstant controls whether an intercept term is included in the fit.
func WithConstant(include bool) ModelOption {
	return func(m *Model) {
		m.includeConstant = include
	}
}
