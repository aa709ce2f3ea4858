package storage

import (
	"database/sql"
	"errors"
	"math"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func toCellData(datasetID int64, row, col int, v float64) cellData {
	return cellData{
		DatasetID: datasetID,
		Row:       row,
		Col:       col,
		Value: sql.NullFloat64{
			Float64: v,
			Valid:   !math.IsNaN(v),
		},
	}
}

// fromNullFloat maps NULL back to NaN.
func fromNullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
