package storage

import (
	"context"
	"errors"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("not found")

// Store persists datasets (2-D grids) and the colormap selections made for
// them.
type Store interface {
	// CreateDataset stores a grid under a display name and returns its ID.
	// All cells are written in a single atomic transaction. NaN cells are
	// stored as NULL.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - name: Display name of the dataset, not necessarily unique
	//   - g: The grid to store
	//
	// Returns:
	//   - datasetID: Unique identifier for the created dataset
	//   - error: If storage fails or context is cancelled
	CreateDataset(ctx context.Context, name string, g *grid.Grid) (datasetID int64, err error)

	// Dataset retrieves dataset metadata by its ID. It returns an error
	// wrapping ErrNotFound when there is no such dataset.
	Dataset(ctx context.Context, id int64) (*Dataset, error)

	// Datasets returns all datasets ordered by ID.
	Datasets(ctx context.Context) ([]*Dataset, error)

	// LoadGrid reads all cells of a dataset back into a grid.
	LoadGrid(ctx context.Context, id int64) (*grid.Grid, error)

	// SaveSelection stores a selection document for a dataset. The document
	// can be a string, a []byte or any YAML-serializable value.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - datasetID: ID of the dataset the selection was made for
	//   - colormap: Name of the chosen colormap
	//   - kind: Name of the normalization kind
	//   - document: The selection document
	//
	// Returns:
	//   - selectionID: Unique identifier for the stored selection
	//   - error: If storage fails or context is cancelled
	SaveSelection(ctx context.Context, datasetID int64, colormap, kind string, document any) (selectionID int64, err error)

	// Selections returns the selections of a dataset, oldest first.
	Selections(ctx context.Context, datasetID int64) ([]*Selection, error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}
