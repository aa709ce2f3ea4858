package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultBatchSize is the number of grid rows a RowReader fetches per query.
const DefaultBatchSize = 64

// ReaderOption configures a RowReader.
type ReaderOption func(*RowReader)

// WithBatchSize sets the number of grid rows fetched per query. Values below
// 1 are ignored.
func WithBatchSize(n int) ReaderOption {
	return func(r *RowReader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// RowReader iterates over the rows of a stored dataset. Cells missing from
// the database are returned as NaN.
type RowReader struct {
	db        *sql.DB
	dataset   *Dataset
	batchSize int

	stmt    *sql.Stmt
	buffer  [][]float64
	nextRow int // first grid row of the next batch
	current []float64
	err     error
}

func newRowReader(ctx context.Context, db *sql.DB, dataset *Dataset, opts ...ReaderOption) (*RowReader, error) {
	rr := &RowReader{
		db:        db,
		dataset:   dataset,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(rr)
	}
	if err := rr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return rr, nil
}

func (rr *RowReader) init(ctx context.Context) error {
	if rr.db == nil {
		return errors.New("database connection required")
	}
	if rr.dataset == nil || rr.dataset.ID <= 0 {
		return errors.New("dataset required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "checking dimensions", fn: rr.checkDims},
		{msg: "preparing query", fn: rr.prepareQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (rr *RowReader) checkDims(context.Context) error {
	if rr.dataset.Rows < 1 || rr.dataset.Cols < 1 {
		return fmt.Errorf("invalid dimensions %dx%d", rr.dataset.Rows, rr.dataset.Cols)
	}
	return nil
}

func (rr *RowReader) prepareQuery(ctx context.Context) (err error) {
	if rr.stmt, err = rr.db.PrepareContext(ctx, selectCellsSQL); err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	return nil
}

// fetch loads the next batch of grid rows into the buffer.
func (rr *RowReader) fetch(ctx context.Context) (err error) {
	lo := rr.nextRow
	hi := min(lo+rr.batchSize, rr.dataset.Rows)

	buffer := make([][]float64, hi-lo)
	for i := range buffer {
		buffer[i] = make([]float64, rr.dataset.Cols)
		for c := range buffer[i] {
			buffer[i][c] = math.NaN()
		}
	}

	rows, err := rr.stmt.QueryContext(ctx, rr.dataset.ID, lo, hi)
	if err != nil {
		return fmt.Errorf("querying cells: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r, c int
		var value sql.NullFloat64
		if err = rows.Scan(&r, &c, &value); err != nil {
			return fmt.Errorf("scanning cell: %w", err)
		}
		if r < lo || r >= hi || c < 0 || c >= rr.dataset.Cols {
			return fmt.Errorf("cell (%d, %d) outside of %dx%d dataset", r, c, rr.dataset.Rows, rr.dataset.Cols)
		}
		buffer[r-lo][c] = fromNullFloat(value)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterating cells: %w", err)
	}

	rr.buffer = buffer
	rr.nextRow = hi
	return nil
}

// Dataset returns metadata about the dataset this reader is accessing.
func (rr *RowReader) Dataset() *Dataset {
	return rr.dataset
}

// Next advances the iterator and returns true if there is another row to
// read, false when the iteration is complete or if an error occurred.
func (rr *RowReader) Next(ctx context.Context) bool {
	if rr.err != nil || rr.stmt == nil {
		return false
	}

	select {
	case <-ctx.Done():
		rr.err = ctx.Err()
		return false
	default:
	}

	if len(rr.buffer) == 0 {
		if rr.nextRow >= rr.dataset.Rows {
			rr.current = nil
			return false
		}
		if rr.err = rr.fetch(ctx); rr.err != nil {
			return false
		}
	}

	rr.current, rr.buffer = rr.buffer[0], rr.buffer[1:]
	return true
}

// Current returns the current row. The slice is owned by the caller.
func (rr *RowReader) Current() []float64 {
	return rr.current
}

// Error returns any error that occurred during iteration.
func (rr *RowReader) Error() error {
	return rr.err
}

// Close releases the prepared statement. After Close is called, the reader
// should not be used.
func (rr *RowReader) Close() error {
	if rr.stmt != nil {
		err := rr.stmt.Close()
		rr.stmt = nil
		rr.buffer = nil
		rr.current = nil
		return err
	}
	return nil
}
