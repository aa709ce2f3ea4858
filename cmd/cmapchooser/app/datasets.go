package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

func newImportCommand(a *App) *cobra.Command {
	var dataPath, name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a data file in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dataPath == "" {
				return errors.New("data file is required")
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
			}
			return a.importData(cmd, dataPath, name)
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "data file (text matrix or image)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "dataset name, defaults to the file name")
	return cmd
}

func (a *App) importData(cmd *cobra.Command, path, name string) error {
	g, err := grid.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.CreateDataset(cmd.Context(), name, g)
	if err != nil {
		return fmt.Errorf("storing dataset: %w", err)
	}

	rows, cols := g.Dims()
	a.logger.Info("dataset stored",
		slog.Int64("dataset", id),
		slog.String("name", name),
		slog.Int("rows", rows),
		slog.Int("cols", cols),
		slog.Any("stats", grid.ComputeStats(g)),
	)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func newDatasetsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets [id]",
		Short: "List stored datasets, or the selections saved for one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.listDatasets(cmd)
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid dataset id: %s", args[0])
			}
			return a.listSelections(cmd, id)
		},
	}
}

func (a *App) listDatasets(cmd *cobra.Command) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()

	datasets, err := store.Datasets(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tCELLS\tCREATED")
	for _, ds := range datasets {
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%s\t%s\n",
			ds.ID, ds.Name, ds.Rows, ds.Cols,
			humanize.Comma(int64(ds.Rows*ds.Cols)),
			humanize.Time(ds.CreatedAt))
	}
	return w.Flush()
}

func (a *App) listSelections(cmd *cobra.Command, datasetID int64) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()

	ds, err := store.Dataset(cmd.Context(), datasetID)
	if err != nil {
		return err
	}
	selections, err := store.Selections(cmd.Context(), datasetID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dataset %d %q, %dx%d\n", ds.ID, ds.Name, ds.Rows, ds.Cols)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLORMAP\tKIND\tCREATED")
	for _, sel := range selections {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", sel.ID, sel.Colormap, sel.Kind, humanize.Time(sel.CreatedAt))
	}
	return w.Flush()
}
