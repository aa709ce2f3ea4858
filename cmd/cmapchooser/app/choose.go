package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/render"
	"github.com/roman-kulish/cmap-chooser/internal/selection"
	"github.com/roman-kulish/cmap-chooser/internal/session"
)

type chooseOptions struct {
	dataPath  string
	datasetID int64
	out       string
	preview   string
	colormap  string
	kind      string
	robust    bool
}

func newChooseCommand(a *App) *cobra.Command {
	var opts chooseOptions

	cmd := &cobra.Command{
		Use:   "choose",
		Short: "Interactively choose a colormap and normalization",
		Long: `Starts a shell over the data. Adjust the normalization and the colormap,
then type "done" to save the selection or "quit" to leave without saving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.choose(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "data file (text matrix or image)")
	cmd.Flags().Int64Var(&opts.datasetID, "dataset", 0, "stored dataset id")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "selection file, printed when empty")
	cmd.Flags().StringVarP(&opts.preview, "preview", "p", "", "preview image re-rendered after every change")
	cmd.Flags().StringVar(&opts.colormap, "colormap", "", "initial colormap, overrides engine.colormap")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "initial normalization kind, overrides engine.kind")
	cmd.Flags().BoolVar(&opts.robust, "robust", false, "start from the 5th/95th percentiles")
	return cmd
}

func (a *App) choose(cmd *cobra.Command, opts *chooseOptions) error {
	ctx := cmd.Context()

	in, err := a.loadInput(ctx, opts.dataPath, opts.datasetID)
	if err != nil {
		return err
	}
	a.logInput(in)

	registry, err := a.registry()
	if err != nil {
		return err
	}

	kind := a.config.Kind()
	if opts.kind != "" {
		if kind, err = norm.ParseKind(opts.kind); err != nil {
			return err
		}
	}
	cmap := a.config.Engine.Colormap
	if opts.colormap != "" {
		cmap = opts.colormap
	}

	initial := session.NewState(grid.ComputeStats(in.data), a.config.Engine.Robust || opts.robust, cmap).WithKind(kind)

	sessOpts := []session.Option{
		session.WithLogger(a.logger),
		session.WithBins(a.config.Engine.Bins),
	}
	if opts.preview != "" {
		sessOpts = append(sessOpts, session.WithPreview(opts.preview, render.NewRenderer(a.config.RendererConfig()), a.config.Format()))
	}

	sess, err := session.New(in.data, registry, initial, sessOpts...)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	// the shell talks on stderr, stdout is kept for the selection document
	result, err := sess.Run(ctx, cmd.InOrStdin(), cmd.ErrOrStderr())
	if errors.Is(err, session.ErrAborted) {
		a.logger.Info("selection aborted, nothing saved")
		return nil
	}
	if err != nil {
		return err
	}

	doc := selection.FromResult(result, a.config.Engine.Bins)
	if opts.out != "" {
		if err = selection.SaveFile(opts.out, doc); err != nil {
			return err
		}
	} else if err = selection.Save(cmd.OutOrStdout(), doc); err != nil {
		return err
	}

	a.logger.Info("selection saved",
		slog.Group("selection",
			slog.String("destination", opts.out),
			slog.String("colormap", doc.Colormap.Name),
			slog.String("norm", doc.Description),
		))

	if a.config.Storage.Database == "" {
		return nil
	}
	return a.storeSelection(ctx, in, doc)
}

// storeSelection saves doc to the database, importing the data first when it
// was read from a file.
func (a *App) storeSelection(ctx context.Context, in *input, doc selection.Document) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()

	datasetID := in.datasetID
	if datasetID == 0 {
		if datasetID, err = store.CreateDataset(ctx, in.name, in.data); err != nil {
			return fmt.Errorf("storing dataset: %w", err)
		}
		a.logger.Info("dataset stored", slog.Int64("dataset", datasetID), slog.String("name", in.name))
	}

	selectionID, err := store.SaveSelection(ctx, datasetID, doc.Colormap.Name, strings.ToLower(doc.Norm.Kind.String()), doc)
	if err != nil {
		return fmt.Errorf("storing selection: %w", err)
	}

	a.logger.Info("selection stored", slog.Int64("dataset", datasetID), slog.Int64("selection", selectionID))
	return nil
}
