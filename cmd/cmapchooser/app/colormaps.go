package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/render"
)

const (
	swatchWidth  = 256
	swatchHeight = 24
)

func newColormapsCommand(a *App) *cobra.Command {
	var swatchDir string

	cmd := &cobra.Command{
		Use:   "colormaps [query]",
		Short: "List the available colormaps",
		Long: `Lists the colormap catalogs and the colormaps whose name contains the
query, ignoring case. With --swatch a colorbar image is written for every
listed colormap.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) > 0 {
				query = args[0]
			}
			return a.colormaps(cmd, query, swatchDir)
		},
	}

	cmd.Flags().StringVar(&swatchDir, "swatch", "", "directory to write colormap swatches to")
	return cmd
}

func (a *App) colormaps(cmd *cobra.Command, query, swatchDir string) error {
	registry, err := a.registry()
	if err != nil {
		return err
	}

	matches := make(map[string]struct{})
	for _, cm := range registry.Search(query) {
		matches[cm.Name] = struct{}{}
	}

	out := cmd.OutOrStdout()
	var listed []*colormap.Colormap
	for _, g := range registry.Groups() {
		var names []string
		for _, cm := range g.Colormaps {
			if _, ok := matches[cm.Name]; ok {
				names = append(names, cm.Name)
				listed = append(listed, cm)
			}
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s:\n  %s\n", g.Name, strings.Join(names, ", "))
	}

	if len(listed) == 0 {
		fmt.Fprintf(out, "no colormap matches %q\n", query)
		if suggestions := registry.Suggest(query, 3); query != "" && len(suggestions) > 0 {
			fmt.Fprintf(out, "did you mean %s?\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	if swatchDir == "" {
		return nil
	}
	return a.writeSwatches(swatchDir, listed)
}

func (a *App) writeSwatches(dir string, cms []*colormap.Colormap) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating swatch directory: %w", err)
	}

	for _, cm := range cms {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", cm.Name, render.ImagePNG))
		if err := render.SaveFile(path, render.Swatch(cm, swatchWidth, swatchHeight), render.ImagePNG); err != nil {
			return fmt.Errorf("writing swatch of '%s': %w", cm.Name, err)
		}
	}

	a.logger.Info("swatches written", slog.String("directory", dir), slog.Int("count", len(cms)))
	return nil
}
