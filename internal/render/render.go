package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
)

const (
	defaultRasterSize     = 512
	defaultColorbarHeight = 20
	defaultTicks          = 5
	tickMarkHeight        = 5
	tickAreaHeight        = 28

	// Default border sizes in pixels
	defaultTopBorder    = 30
	defaultLeftBorder   = 40
	defaultBottomBorder = 30
	defaultRightBorder  = 40
)

// BorderConfig defines the sizes of white space around the plot.
type BorderConfig struct {
	Top    int // Space for the colormap name
	Left   int // Left padding, room for the first tick label
	Bottom int // Space for the information bar
	Right  int // Right padding, room for the last tick label
}

// Config holds all configuration options for rendering.
type Config struct {
	// Size of the data raster in pixels. When both are zero the longer side
	// of the grid is scaled to 512 px, when one is zero the aspect ratio is
	// kept.
	Width  int
	Height int

	FontSize       float64 // Font size in points
	ColorbarHeight int     // Height of the colorbar strip
	Ticks          int     // Number of colorbar ticks, at least 2
	MapperSize     int     // Number of colors in the lookup table (0 for default)
	NoAnnotations  bool    // Skip the colormap name, tick labels and info bar

	Borders BorderConfig
}

// Renderer draws a grid through a normalization and a colormap, with a
// horizontal colorbar above the data.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer, filling zero config values with defaults.
func NewRenderer(config Config) *Renderer {
	if config.FontSize <= 0 {
		config.FontSize = defaultFontSize
	}
	if config.ColorbarHeight <= 0 {
		config.ColorbarHeight = defaultColorbarHeight
	}
	if config.Ticks < 2 {
		config.Ticks = defaultTicks
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &Renderer{config: config}
}

// layout holds the placement of every part of a rendered image.
type layout struct {
	colorbar image.Rectangle
	raster   image.Rectangle
	rows     int
	cols     int
}

// Render creates an image of g colored with cmap through n.
func (r *Renderer) Render(g *grid.Grid, cmap *colormap.Colormap, n norm.Normalizer) (*image.RGBA, error) {
	if g == nil || cmap == nil || n == nil {
		return nil, errors.New("grid, colormap and normalization are required")
	}

	mapper := colormap.NewMapperWithSize(cmap, r.config.MapperSize)
	raster := r.rasterize(g, mapper, n)
	rb := raster.Bounds()

	borders := r.config.Borders
	rows, cols := g.Dims()
	lay := layout{
		colorbar: image.Rect(borders.Left, borders.Top, borders.Left+rb.Dx(), borders.Top+r.config.ColorbarHeight),
		rows:     rows,
		cols:     cols,
	}
	rasterTop := lay.colorbar.Max.Y + tickAreaHeight
	lay.raster = image.Rect(borders.Left, rasterTop, borders.Left+rb.Dx(), rasterTop+rb.Dy())

	img := image.NewRGBA(image.Rect(0, 0, lay.raster.Max.X+borders.Right, lay.raster.Max.Y+borders.Bottom))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawColorbar(img, lay.colorbar, mapper)
	draw.Draw(img, lay.raster, raster, rb.Min, draw.Over)

	if r.config.NoAnnotations {
		return img, nil
	}

	ann, err := newAnnotator(r.config.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, lay, cmap, n, r.config.Ticks); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}
	return img, nil
}

// rasterize maps every cell to a color, one pixel per cell, and scales the
// result to the configured size. Masked cells stay transparent.
func (r *Renderer) rasterize(g *grid.Grid, mapper *colormap.Mapper, n norm.Normalizer) image.Image {
	rows, cols := g.Dims()
	src := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			src.SetNRGBA(x, y, color.NRGBA(mapper.Color(n.Forward(g.At(y, x)))))
		}
	}

	width, height := r.rasterSize(rows, cols)
	if width == cols && height == rows {
		return src
	}
	return imaging.Resize(src, width, height, imaging.NearestNeighbor)
}

func (r *Renderer) rasterSize(rows, cols int) (width, height int) {
	width, height = r.config.Width, r.config.Height
	if width <= 0 && height <= 0 {
		if cols >= rows {
			width = defaultRasterSize
		} else {
			height = defaultRasterSize
		}
	}

	if width <= 0 {
		width = int(math.Round(float64(cols) * float64(height) / float64(rows)))
	}
	if height <= 0 {
		height = int(math.Round(float64(rows) * float64(width) / float64(cols)))
	}
	return max(width, 1), max(height, 1)
}

// drawColorbar fills area with the colormap from 0 on the left to 1 on the
// right.
func drawColorbar(img *image.RGBA, area image.Rectangle, mapper *colormap.Mapper) {
	width := area.Dx()
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		c := mapper.Color(t)
		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.SetRGBA(area.Min.X+x, y, c)
		}
	}
}

// Swatch returns a width x height strip of the colormap.
func Swatch(cmap *colormap.Colormap, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	drawColorbar(img, img.Bounds(), colormap.NewMapper(cmap))
	return img
}
