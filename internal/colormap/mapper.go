package colormap

import (
	"image/color"
	"math"
)

// DefaultMapperSize is the default number of colors in a Mapper.
const DefaultMapperSize = 256

// Mapper provides fast value-to-color mapping through a pre-computed lookup
// table. Values are expected to be normalized to [0,1] already.
type Mapper struct {
	colorMap []color.RGBA // Pre-computed colors
	cmap     *Colormap
	size     int
}

// NewMapper creates a mapper for cmap with the default size.
func NewMapper(cmap *Colormap) *Mapper {
	return NewMapperWithSize(cmap, DefaultMapperSize)
}

// NewMapperWithSize creates a mapper with size pre-computed colors. Sizes
// below 2 fall back to the default.
func NewMapperWithSize(cmap *Colormap, size int) *Mapper {
	if size < 2 {
		size = DefaultMapperSize
	}
	return &Mapper{
		colorMap: cmap.Sample(size),
		cmap:     cmap,
		size:     size,
	}
}

// Color returns the color for the normalized value v. NaN gives Bad, values
// outside [0,1] get the end colors.
func (m *Mapper) Color(v float64) color.RGBA {
	if math.IsNaN(v) {
		return Bad
	}

	if v <= 0 {
		return m.colorMap[0]
	}
	if v >= 1 {
		return m.colorMap[m.size-1]
	}
	return m.colorMap[int(v*float64(m.size-1)+0.5)]
}

// Colormap returns the colormap the table was sampled from.
func (m *Mapper) Colormap() *Colormap {
	return m.cmap
}

// Size returns the number of colors in the table.
func (m *Mapper) Size() int {
	return m.size
}
