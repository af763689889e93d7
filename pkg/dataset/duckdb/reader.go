// Package duckdb loads electricity-transformer-temperature rows from a DuckDB
// database into dataset records.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/ettlab/ettcast/pkg/dataset"
)

// Columns of the ETT dataset, in table order. OT is the oil temperature target.
var Columns = []string{"HUFL", "HULL", "MUFL", "MULL", "LUFL", "LULL", "OT"}

type Row struct {
	TimeStamp time.Time
	Loads     [6]float64
	OilTemp   float64
}

type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

// LoadRows streams rows of one table between from and to, in timestamp order,
// through handler.
func (r *Reader) LoadRows(ctx context.Context, table string, from, to time.Time, handler func(row Row) error) error {

	query := fmt.Sprintf(`SELECT ts, "HUFL", "HULL", "MUFL", "MULL", "LUFL", "LULL", "OT" FROM %s WHERE ts BETWEEN ? AND ? ORDER BY ts`, table)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var row Row
		err := rows.Scan(&row.TimeStamp,
			&row.Loads[0], &row.Loads[1], &row.Loads[2],
			&row.Loads[3], &row.Loads[4], &row.Loads[5],
			&row.OilTemp)
		if err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		if err := handler(row); err != nil {
			return fmt.Errorf("error processing row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}

	return nil
}

// LoadRecords assembles one dataset record per column from the rows of one
// table. All records share the first row's timestamp as start.
func (r *Reader) LoadRecords(ctx context.Context, table string, from, to time.Time, interval time.Duration) ([]dataset.Record, error) {

	var start time.Time
	values := make([][]float64, len(Columns))

	err := r.LoadRows(ctx, table, from, to, func(row Row) error {
		if start.IsZero() {
			start = row.TimeStamp
		}
		for i := range row.Loads {
			values[i] = append(values[i], row.Loads[i])
		}
		values[len(Columns)-1] = append(values[len(Columns)-1], row.OilTemp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]dataset.Record, len(Columns))
	for i, name := range Columns {
		records[i] = dataset.Record{
			SeriesID: name,
			Start:    start,
			Interval: interval,
			Values:   values[i],
		}
	}
	return records, nil
}
