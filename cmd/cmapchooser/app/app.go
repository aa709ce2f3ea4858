package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/storage"
)

// App carries the state shared by all commands.
type App struct {
	logger *slog.Logger
	level  *slog.LevelVar
	config *Config

	configPath string
	dbPath     string
	verbose    bool
}

// Execute runs the command line with the arguments of the process.
func Execute(ctx context.Context, logger *slog.Logger, level *slog.LevelVar) error {
	return NewRootCommand(logger, level).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. The logger level is adjusted from
// the configuration before any command runs.
func NewRootCommand(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	a := &App{
		logger: logger,
		level:  level,
	}

	root := &cobra.Command{
		Use:   "cmapchooser",
		Short: "Choose a colormap and normalization for 2-D data",
		Long: `An interactive tool to pick a colormap and a normalization (linear, log,
symlog, optionally histogram-equalized) for a 2-D dataset, save the selection
and render images with it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default is $HOME/"+defaultConfigName+")")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file, overrides storage.database")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable more verbose output")

	root.AddCommand(
		newChooseCommand(a),
		newRenderCommand(a),
		newColormapsCommand(a),
		newImportCommand(a),
		newDatasetsCommand(a),
	)
	return root
}

func (a *App) setup(*cobra.Command, []string) error {
	var err error
	if a.configPath != "" {
		a.config, err = LoadConfig(a.configPath)
	} else {
		a.config, err = LoadDefaultConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration file: %w", err)
	}

	if a.dbPath != "" {
		a.config.Storage.Database = a.dbPath
	}

	level, _ := a.config.LogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}
	if a.level != nil {
		a.level.Set(level)
	}
	return nil
}

func (a *App) registry() (*colormap.Registry, error) {
	var providers []colormap.Provider
	if a.config.Catalogs.Builtin {
		providers = append(providers, colormap.Builtin()...)
	}
	if a.config.Catalogs.Themes {
		providers = append(providers, colormap.Themes())
	}
	for _, file := range a.config.Catalogs.Files {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, fmt.Errorf("expanding catalog path '%s': %w", file, err)
		}
		providers = append(providers, colormap.File(path))
	}

	return colormap.NewRegistry(providers, colormap.WithLogger(a.logger))
}

// store opens the configured database. The caller closes it.
func (a *App) store() (*storage.SqliteStore, error) {
	if a.config.Storage.Database == "" {
		return nil, errors.New("db path is required")
	}

	path, err := homedir.Expand(a.config.Storage.Database)
	if err != nil {
		return nil, fmt.Errorf("expanding db path: %w", err)
	}
	return storage.NewSqliteStore(path), nil
}

// input is a grid together with where it came from.
type input struct {
	data      *grid.Grid
	name      string
	datasetID int64 // zero when the grid was read from a file
}

// loadInput reads the grid from a file or from a stored dataset. Exactly
// one of path and datasetID must be set.
func (a *App) loadInput(ctx context.Context, path string, datasetID int64) (*input, error) {
	switch {
	case path != "" && datasetID > 0:
		return nil, errors.New("--data and --dataset are mutually exclusive")

	case path != "":
		g, err := grid.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading data: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return &input{data: g, name: name}, nil

	case datasetID > 0:
		store, err := a.store()
		if err != nil {
			return nil, err
		}
		defer store.Close()

		ds, err := store.Dataset(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		g, err := store.LoadGrid(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		return &input{data: g, name: ds.Name, datasetID: ds.ID}, nil
	}

	return nil, errors.New("data file or dataset id is required")
}

func (a *App) logInput(in *input) {
	rows, cols := in.data.Dims()
	a.logger.Info("data loaded",
		slog.String("name", in.name),
		slog.Int64("dataset", in.datasetID),
		slog.Int("rows", rows),
		slog.Int("cols", cols),
		slog.Any("stats", grid.ComputeStats(in.data)),
	)
}
