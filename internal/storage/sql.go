package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	insertDatasetSQL = `
INSERT INTO datasets (name,
                      rows,
                      cols)
VALUES (?, ?, ?)`

	selectDatasetSQL = `
SELECT 
    id, 
    name, 
    rows, 
    cols, 
    created_at 
FROM datasets 
WHERE 
    id = ?`

	selectDatasetsSQL = `
SELECT 
    id, 
    name, 
    rows, 
    cols, 
    created_at 
FROM datasets
ORDER BY id`

	insertCellsSQL = `
INSERT INTO cells (dataset_id,
                   row_index,
                   col_index,
                   value)
VALUES `

	selectCellsSQL = `
SELECT 
    row_index, 
    col_index, 
    value 
FROM cells 
WHERE 
    dataset_id = ? 
    AND row_index >= ? 
    AND row_index < ?
ORDER BY row_index, col_index`

	insertSelectionSQL = `
INSERT INTO selections (dataset_id,
                        colormap,
                        kind,
                        document)
VALUES (?, ?, ?, ?)`

	selectSelectionsSQL = `
SELECT 
    id, 
    dataset_id, 
    colormap, 
    kind, 
    document, 
    created_at 
FROM selections 
WHERE 
    dataset_id = ?
ORDER BY id`
)
