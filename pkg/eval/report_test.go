package eval

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReport(t *testing.T) {
	scores := map[string]float64{"OT": 1.0, "HUFL": 3.0}
	report := NewReport("ar(24)", t0.Add(24*time.Hour), 168, scores)

	if report.RunID == uuid.Nil {
		t.Error("expected a run id")
	}
	if math.Abs(report.AverageRMSE-2.0) > 1e-12 {
		t.Errorf("expected average rmse 2, got %v", report.AverageRMSE)
	}
	if report.Horizon != 168 {
		t.Errorf("expected horizon 168, got %d", report.Horizon)
	}
}

func TestReport_formatMetric(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "rounded", value: 0.816496580927726, want: "0.8165"},
		{name: "zero", value: 0, want: "0.0000"},
		{name: "not a number", value: math.NaN(), want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMetric(tt.value); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
