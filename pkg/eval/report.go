package eval

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// Report summarizes one evaluation run of a single model.
type Report struct {
	RunID       uuid.UUID
	Model       string
	TrainStart  time.Time
	TrainEnd    time.Time
	CutoffTime  time.Time
	Horizon     int
	SeriesRMSE  map[string]float64
	AverageRMSE float64
}

// NewReport assembles a report from per-series scores computed by Score.
func NewReport(model string, cutoff time.Time, horizon int, scores map[string]float64) Report {
	r := Report{
		RunID:      uuid.Must(uuid.NewV7()),
		Model:      model,
		CutoffTime: cutoff,
		Horizon:    horizon,
		SeriesRMSE: scores,
	}
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		r.AverageRMSE = sum / float64(len(scores))
	}
	return r
}

func (r Report) Print(logger *zap.Logger) {
	logger.Info("evaluation report",
		zap.String("run_id", r.RunID.String()),
		zap.String("model", r.Model),
		zap.Time("train_start", r.TrainStart),
		zap.Time("train_end", r.TrainEnd),
		zap.Time("cutoff", r.CutoffTime),
		zap.Int("horizon", r.Horizon),
		zap.String("avg_rmse", formatMetric(r.AverageRMSE)),
	)
	names := make([]string, 0, len(r.SeriesRMSE))
	for name := range r.SeriesRMSE {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Info("series score",
			zap.String("series", name),
			zap.String("rmse", formatMetric(r.SeriesRMSE[name])),
		)
	}
}

// formatMetric rescales to four decimal places for stable report output.
func formatMetric(v float64) string {
	d, err := decimal.NewFromFloat64(v)
	if err != nil {
		return "n/a"
	}
	return d.Rescale(4).String()
}
