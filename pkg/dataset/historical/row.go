package historical

import (
	"errors"
	"fmt"
	"time"

	"github.com/ettlab/ettcast/pkg/dataset"
)

// BinaryRow is one ETT observation in the dump format: a nanosecond timestamp
// followed by the six load measurements and the oil temperature. All fields are
// 8 bytes, so the struct carries no padding.
type BinaryRow struct {
	TimeStamp int64
	Hufl      float64
	Hull      float64
	Mufl      float64
	Mull      float64
	Lufl      float64
	Lull      float64
	Ot        float64
}

var seriesIDs = []string{"HUFL", "HULL", "MUFL", "MULL", "LUFL", "LULL", "OT"}

func (row BinaryRow) values() [7]float64 {
	return [7]float64{row.Hufl, row.Hull, row.Mufl, row.Mull, row.Lufl, row.Lull, row.Ot}
}

var ErrEmptyWindow = errors.New("no rows in requested window")

// LoadRecords reads every row with from <= timestamp < to and assembles one
// dataset record per ETT column. The file must be sorted by timestamp, which
// cmd/ettdump guarantees.
func LoadRecords(source *Source[BinaryRow], from, to time.Time, interval time.Duration) ([]dataset.Record, error) {
	var (
		start    time.Time
		started  bool
		values   [7][]float64
		fromNano = from.UnixNano()
		toNano   = to.UnixNano()
	)

	for idx := int64(0); ; idx++ {
		var row BinaryRow
		if err := source.Read(idx, &row); err != nil {
			if errors.Is(err, ErrEof) {
				break
			}
			return nil, fmt.Errorf("reading row %d: %w", idx, err)
		}
		if row.TimeStamp < fromNano {
			continue
		}
		if row.TimeStamp >= toNano {
			break
		}
		if !started {
			start = time.Unix(0, row.TimeStamp).UTC()
			started = true
		}
		for i, v := range row.values() {
			values[i] = append(values[i], v)
		}
	}

	if !started {
		return nil, fmt.Errorf("%w: %s to %s", ErrEmptyWindow, from, to)
	}

	records := make([]dataset.Record, len(seriesIDs))
	for i, id := range seriesIDs {
		records[i] = dataset.Record{
			SeriesID: id,
			Start:    start,
			Interval: interval,
			Values:   values[i],
		}
	}
	return records, nil
}
