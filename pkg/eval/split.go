// Package eval partitions a frame into training and held-out views at a cutoff
// time and scores forecasts against ground truth.
package eval

import (
	"errors"
	"fmt"
	"time"

	"github.com/ettlab/ettcast/pkg/frame"
)

var (
	ErrLengthMismatch    = errors.New("sequences have different lengths")
	ErrTimestampMismatch = errors.New("forecast timestamps do not match reference timestamps")
	ErrSeriesNotFound    = errors.New("series not present in reference frame")
)

// Split partitions f at cutoff: train holds every row strictly before cutoff,
// holdout the rest. The two views are disjoint and concatenate, in order, to
// exactly the original frame. A cutoff outside the index yields one empty side,
// which is not an error.
func Split(f *frame.Frame, cutoff time.Time) (train, holdout *frame.Frame) {
	train = f.SliceByTime(func(ts time.Time) bool { return ts.Before(cutoff) })
	holdout = f.SliceByTime(func(ts time.Time) bool { return !ts.Before(cutoff) })
	return train, holdout
}

// AlignByTime extracts from truth the rows whose timestamps exactly match the
// prediction frame's index. Unlike tail alignment by count, a prediction
// timestamp absent from truth is an error, so gaps or a different sampling rate
// cannot silently mis-score.
func AlignByTime(pred, truth *frame.Frame) (*frame.Frame, error) {
	wanted := make(map[time.Time]struct{}, pred.Len())
	for _, ts := range pred.Timestamps() {
		wanted[ts.UTC()] = struct{}{}
	}

	aligned := truth.SliceByTime(func(ts time.Time) bool {
		_, ok := wanted[ts.UTC()]
		return ok
	})
	if aligned.Len() != pred.Len() {
		return nil, fmt.Errorf("%w: %d of %d forecast timestamps found in reference",
			ErrTimestampMismatch, aligned.Len(), pred.Len())
	}
	return aligned, nil
}

// Score computes the per-series RMSE of pred against truth after timestamp
// alignment. Every series of pred must exist in truth; truth may carry extra
// series, which are ignored.
func Score(pred, truth *frame.Frame) (map[string]float64, error) {
	aligned, err := AlignByTime(pred, truth)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(pred.SeriesNames()))
	for _, name := range pred.SeriesNames() {
		predicted, _ := pred.Series(name)
		actual, ok := aligned.Series(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrSeriesNotFound, name)
		}
		score, err := RMSE(predicted, actual)
		if err != nil {
			return nil, fmt.Errorf("scoring series %q: %w", name, err)
		}
		scores[name] = score
	}
	return scores, nil
}
