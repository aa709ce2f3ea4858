package storage

import (
	"database/sql"
	"time"
)

// Dataset describes a stored grid.
type Dataset struct {
	ID        int64
	Name      string
	Rows      int
	Cols      int
	CreatedAt time.Time
}

// Selection is a stored selection document.
type Selection struct {
	ID        int64
	DatasetID int64
	Colormap  string
	Kind      string
	Document  string
	CreatedAt time.Time
}

type cellData struct {
	DatasetID int64
	Row       int
	Col       int
	Value     sql.NullFloat64
}
