package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSE returns the root-mean-square error between two equally long sequences.
// Both must have at least one element.
func RMSE(predicted, actual []float64) (float64, error) {
	if err := checkLengths(predicted, actual); err != nil {
		return 0, err
	}
	k := float64(len(predicted))
	return floats.Distance(predicted, actual, 2) / math.Sqrt(k), nil
}

// MAE returns the mean absolute error between two equally long sequences.
func MAE(predicted, actual []float64) (float64, error) {
	if err := checkLengths(predicted, actual); err != nil {
		return 0, err
	}
	k := float64(len(predicted))
	return floats.Distance(predicted, actual, 1) / k, nil
}

// MAPE returns the mean absolute percentage error. Zero actual values are
// skipped; if every actual value is zero the result is NaN.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := checkLengths(predicted, actual); err != nil {
		return 0, err
	}

	sum := 0.0
	n := 0
	for i, a := range actual {
		if a == 0 {
			continue
		}
		sum += math.Abs((predicted[i] - a) / a)
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return sum / float64(n) * 100, nil
}

func checkLengths(predicted, actual []float64) error {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return fmt.Errorf("%w: predicted %d, actual %d",
			ErrLengthMismatch, len(predicted), len(actual))
	}
	return nil
}
