package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

// cellBatchSize is the number of cells written by one INSERT statement.
const cellBatchSize = 500

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new store backed by the Sqlite database at
// dbPath. Connections are opened lazily and the schema is initialized on
// first use.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// the read-only connection cannot create the file or the schema
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateDataset(ctx context.Context, name string, g *grid.Grid) (datasetID int64, err error) {
	if g == nil {
		return 0, errors.New("grid is nil")
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	rows, cols := g.Dims()
	result, err := tx.ExecContext(ctx, insertDatasetSQL, name, rows, cols)
	if err != nil {
		err = fmt.Errorf("inserting dataset: %w", err)
		return
	}

	if datasetID, err = result.LastInsertId(); err != nil {
		err = fmt.Errorf("getting dataset ID: %w", err)
		return
	}

	batch := make([]cellData, 0, cellBatchSize)
	for r := 0; r < rows; r++ {
		for c, v := range g.Row(r) {
			batch = append(batch, toCellData(datasetID, r, c, v))
			if len(batch) == cellBatchSize {
				if err = insertCells(ctx, tx, batch); err != nil {
					return 0, err
				}
				batch = batch[:0]
			}
		}
	}
	if len(batch) > 0 {
		if err = insertCells(ctx, tx, batch); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return datasetID, nil
}

func insertCells(ctx context.Context, tx *sql.Tx, cells []cellData) error {
	values := make([]interface{}, 0, len(cells)*4)
	valuesPlaceholder := "(?, ?, ?, ?)"

	var sb strings.Builder
	sb.WriteString(insertCellsSQL)

	for i, cell := range cells {
		values = append(values,
			cell.DatasetID,
			cell.Row,
			cell.Col,
			cell.Value,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valuesPlaceholder)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting cells: %w", err)
	}
	return nil
}

func (s *SqliteStore) Dataset(ctx context.Context, id int64) (dataset *Dataset, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectDatasetSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var ds Dataset
	err = stmt.QueryRowContext(ctx, id).Scan(&ds.ID, &ds.Name, &ds.Rows, &ds.Cols, &ds.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("dataset %d: %w", id, ErrNotFound)
		return
	}
	if err != nil {
		err = fmt.Errorf("scanning dataset: %w", err)
		return
	}

	return &ds, nil
}

func (s *SqliteStore) Datasets(ctx context.Context) (datasets []*Dataset, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectDatasetsSQL)
	if err != nil {
		err = fmt.Errorf("querying datasets: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var ds Dataset
		if err = rows.Scan(&ds.ID, &ds.Name, &ds.Rows, &ds.Cols, &ds.CreatedAt); err != nil {
			err = fmt.Errorf("scanning dataset: %w", err)
			return
		}
		datasets = append(datasets, &ds)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating datasets: %w", err)
	}
	return
}

// ReadRows creates a RowReader that iterates over the rows of a dataset in
// batches.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - datasetID: Unique identifier of the dataset to read from
//   - opts: Optional configuration parameters for the reader (WithBatchSize)
//
// The returned RowReader must be closed after use to release database
// resources. Each reader instance should only be used from a single goroutine.
//
// Returns error if reader creation fails or the dataset doesn't exist.
func (s *SqliteStore) ReadRows(ctx context.Context, datasetID int64, opts ...ReaderOption) (*RowReader, error) {
	ds, err := s.Dataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newRowReader(ctx, db, ds, opts...)
}

func (s *SqliteStore) LoadGrid(ctx context.Context, id int64) (g *grid.Grid, err error) {
	reader, err := s.ReadRows(ctx, id)
	if err != nil {
		return nil, err
	}
	defer closeWithError(reader, &err)

	rows := make([][]float64, 0, reader.Dataset().Rows)
	for reader.Next(ctx) {
		rows = append(rows, reader.Current())
	}
	if err = reader.Error(); err != nil {
		return nil, fmt.Errorf("reading dataset %d: %w", id, err)
	}

	if g, err = grid.New(rows); err != nil {
		return nil, fmt.Errorf("building grid for dataset %d: %w", id, err)
	}
	return g, nil
}

func (s *SqliteStore) SaveSelection(ctx context.Context, datasetID int64, colormap, kind string, document any) (selectionID int64, err error) {
	var doc string

	switch d := document.(type) {
	case string:
		doc = d

	case []byte:
		doc = string(d)

	default:
		var p []byte
		if p, err = yaml.Marshal(document); err != nil {
			err = fmt.Errorf("marshaling document: %w", err)
			return
		}
		doc = string(p)
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSelectionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, datasetID, colormap, kind, doc)
	if err != nil {
		err = fmt.Errorf("inserting selection: %w", err)
		return
	}

	selectionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting selection ID: %w", err)
	}
	return
}

func (s *SqliteStore) Selections(ctx context.Context, datasetID int64) (selections []*Selection, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSelectionsSQL, datasetID)
	if err != nil {
		err = fmt.Errorf("querying selections: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sel Selection
		if err = rows.Scan(&sel.ID, &sel.DatasetID, &sel.Colormap, &sel.Kind, &sel.Document, &sel.CreatedAt); err != nil {
			err = fmt.Errorf("scanning selection: %w", err)
			return
		}
		selections = append(selections, &sel)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating selections: %w", err)
	}
	return
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}

var _ Store = (*SqliteStore)(nil)
