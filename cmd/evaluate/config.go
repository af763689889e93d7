package main

import (
	"time"

	"github.com/ettlab/ettcast/pkg/forecast"
)

// ETTh1 covers 2016-07-01 through 2018-06-26 at hourly sampling. The final
// week is withheld as the evaluation window.
var (
	WindowStart = time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2018, 6, 26, 20, 0, 0, 0, time.UTC)
)

const (
	SamplingInterval = time.Hour
	SamplingFreq     = forecast.FreqHourly

	// One week of hourly steps, both the cutback from the end of the data
	// and the forecast horizon.
	Horizon = 7 * 24

	ArOrder = 24 // one day of hourly lags

	RemoteModel          = "amazon/chronos-t5-small"
	RemoteRequestTimeout = 5 * time.Minute
)

// Context lengths swept for the pretrained model. Zero means server default.
var ContextLengths = []int{168, 336, 672}
