package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
)

const (
	dpi             = 72.0
	defaultFontSize = 12.0
)

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
}

func newAnnotator(fontSize float64) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    fontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, lay layout, cmap *colormap.Colormap, n norm.Normalizer, ticks int) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawTitle(lay, cmap.Name); err != nil {
		return fmt.Errorf("drawing colormap name: %w", err)
	}
	if err := a.drawTicks(img, lay, n, ticks); err != nil {
		return fmt.Errorf("drawing colorbar ticks: %w", err)
	}
	if err := a.drawInfoBar(img, lay, n); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}
	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

// drawTitle centers the colormap name above the colorbar.
func (a *annotator) drawTitle(lay layout, name string) error {
	width := font.MeasureString(a.fontFace, name).Round()
	x := lay.colorbar.Min.X + (lay.colorbar.Dx()-width)/2
	y := lay.colorbar.Min.Y - a.fontFace.Metrics().Descent.Round() - 4

	_, err := a.context.DrawString(name, freetype.Pt(x, y))
	return err
}

// drawTicks places evenly spaced ticks along the colorbar and labels each
// with the data value that maps to it.
func (a *annotator) drawTicks(img *image.RGBA, lay layout, n norm.Normalizer, ticks int) error {
	bar := lay.colorbar
	textY := bar.Max.Y + tickMarkHeight + a.fontFace.Metrics().Ascent.Round() + 2

	for i := 0; i < ticks; i++ {
		t := float64(i) / float64(ticks-1)
		x := bar.Min.X + int(math.Round(t*float64(bar.Dx()-1)))

		// Draw tick mark
		for y := bar.Max.Y; y < bar.Max.Y+tickMarkHeight; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatTick(n.Inverse(t))
		width := font.MeasureString(a.fontFace, label)
		if _, err := a.context.DrawString(label, freetype.Pt(x-width.Round()/2, textY)); err != nil {
			return fmt.Errorf("drawing tick label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, lay layout, n norm.Normalizer) error {
	info := fmt.Sprintf("%s cells (%d x %d); %s",
		humanize.Comma(int64(lay.rows*lay.cols)), lay.rows, lay.cols, norm.Describe(n))

	// Center text vertically in bottom border
	bottom := img.Bounds().Max.Y - lay.raster.Max.Y
	textY := img.Bounds().Max.Y - (bottom-a.fontHeight())/2 - a.fontFace.Metrics().Descent.Round()

	_, err := a.context.DrawString(info, freetype.Pt(lay.raster.Min.X, textY))
	return err
}

// formatTick formats a colorbar tick value. Very large and very small
// magnitudes get SI prefixes.
func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 0):
		return fmt.Sprintf("%v", v)
	case v == 0:
		return "0"
	case abs >= 1e4 || abs < 1e-2:
		return humanize.SIWithDigits(v, 2, "")
	default:
		return humanize.FtoaWithDigits(v, 2)
	}
}
