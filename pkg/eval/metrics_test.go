package eval

import (
	"errors"
	"math"
	"testing"
)

func TestRMSE(t *testing.T) {
	tests := []struct {
		name      string
		predicted []float64
		actual    []float64
		want      float64
	}{
		{
			name:      "identical sequences score zero",
			predicted: []float64{1.5, -2, 0, 7},
			actual:    []float64{1.5, -2, 0, 7},
			want:      0,
		},
		{
			name:      "single element",
			predicted: []float64{3},
			actual:    []float64{1},
			want:      2,
		},
		{
			name:      "sqrt of mean squared error",
			predicted: []float64{5, 5, 5},
			actual:    []float64{4, 6, 5},
			want:      math.Sqrt(2.0 / 3.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSE(tt.predicted, tt.actual)
			if err != nil {
				t.Fatalf("RMSE failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRMSE_Symmetric(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{0, 4, 2, -1}

	ab, err := RMSE(a, b)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	ba, err := RMSE(b, a)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if ab != ba {
		t.Errorf("rmse not symmetric: %v != %v", ab, ba)
	}
}

func TestRMSE_LengthMismatch(t *testing.T) {
	tests := []struct {
		name      string
		predicted []float64
		actual    []float64
	}{
		{name: "three vs four", predicted: []float64{1, 2, 3}, actual: []float64{1, 2, 3, 4}},
		{name: "both empty", predicted: nil, actual: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RMSE(tt.predicted, tt.actual); !errors.Is(err, ErrLengthMismatch) {
				t.Errorf("expected ErrLengthMismatch, got %v", err)
			}
		})
	}
}

func TestMAE(t *testing.T) {
	got, err := MAE([]float64{5, 5, 5}, []float64{4, 6, 5})
	if err != nil {
		t.Fatalf("MAE failed: %v", err)
	}
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMAPE(t *testing.T) {
	got, err := MAPE([]float64{110, 90}, []float64{100, 100})
	if err != nil {
		t.Fatalf("MAPE failed: %v", err)
	}
	if math.Abs(got-10) > 1e-12 {
		t.Errorf("expected 10%%, got %v", got)
	}

	// All-zero actuals have no defined percentage error.
	got, err = MAPE([]float64{1, 1}, []float64{0, 0})
	if err != nil {
		t.Fatalf("MAPE failed: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}
}
