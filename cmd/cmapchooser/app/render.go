package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/render"
	"github.com/roman-kulish/cmap-chooser/internal/selection"
)

type renderOptions struct {
	dataPath      string
	datasetID     int64
	selection     string
	out           string
	format        string
	noAnnotations bool
}

func newRenderCommand(a *App) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render data with a saved selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.renderImage(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "data file (text matrix or image)")
	cmd.Flags().Int64Var(&opts.datasetID, "dataset", 0, "stored dataset id")
	cmd.Flags().StringVarP(&opts.selection, "selection", "s", "", "selection file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output image")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output image format [png, jpeg, bmp, tiff]")
	cmd.Flags().BoolVar(&opts.noAnnotations, "no-annotations", false, "draw the colorbar and data only")
	return cmd
}

// outputFormat resolves the image format: the flag wins, then the file
// extension, then the configured default. The extension is added when out
// has none.
func outputFormat(out, flag string, fallback render.Format) (string, render.Format, error) {
	if flag != "" {
		f, err := render.ParseFormat(flag)
		if err != nil {
			return "", "", err
		}
		if filepath.Ext(out) == "" {
			out = fmt.Sprintf("%s.%s", out, f)
		}
		return out, f, nil
	}

	if filepath.Ext(out) == "" {
		return fmt.Sprintf("%s.%s", out, fallback), fallback, nil
	}
	f, err := render.FormatFromPath(out)
	if err != nil {
		return "", "", err
	}
	return out, f, nil
}

func (a *App) renderImage(cmd *cobra.Command, opts *renderOptions) error {
	var err error
	if opts.selection == "" {
		err = errors.New("selection file is required")
	} else if opts.out == "" {
		err = errors.New("output file is required")
	}
	if err != nil {
		return err
	}

	out, format, err := outputFormat(opts.out, opts.format, a.config.Format())
	if err != nil {
		return err
	}

	doc, err := selection.LoadFile(opts.selection)
	if err != nil {
		return err
	}

	in, err := a.loadInput(cmd.Context(), opts.dataPath, opts.datasetID)
	if err != nil {
		return err
	}
	a.logInput(in)

	cmap, n, err := doc.Decode(in.data)
	if errors.Is(err, norm.ErrDegenerateHistogram) {
		a.logger.Warn("equalization skipped, using the base normalization", slog.String("error", err.Error()))
	} else if err != nil {
		return err
	}

	config := a.config.RendererConfig()
	config.NoAnnotations = config.NoAnnotations || opts.noAnnotations

	img, err := render.NewRenderer(config).Render(in.data, cmap, n)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	a.logger.Info("rendering data",
		slog.Group("image",
			slog.String("destination", out),
			slog.String("format", string(format)),
			slog.String("colormap", cmap.Name),
			slog.String("norm", norm.Describe(n)),
			slog.Int("width", img.Bounds().Dx()),
			slog.Int("height", img.Bounds().Dy()),
		))

	return render.SaveFile(out, img, format)
}
