package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const reversedSuffix = "_r"

// ErrNotFound is returned when no colormap has the requested name.
var ErrNotFound = errors.New("colormap not found")

// Bad is the color of masked (NaN) values.
var Bad = color.RGBA{}

// Colormap is a continuous color function over [0,1] built from an ordered
// list of color samples. Samples are spread evenly and blended in RGB.
type Colormap struct {
	Name  string
	Stops []colorful.Color
}

// FromList creates a colormap from an ordered list of colors. A single color
// gives a constant map.
func FromList(name string, colors []colorful.Color) (*Colormap, error) {
	if name == "" {
		return nil, errors.New("colormap name is empty")
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("colormap '%s' has no colors", name)
	}

	stops := make([]colorful.Color, len(colors))
	for i, c := range colors {
		stops[i] = c.Clamped()
	}
	if len(stops) == 1 {
		stops = append(stops, stops[0])
	}
	return &Colormap{Name: name, Stops: stops}, nil
}

// FromHex creates a colormap from "#rrggbb" color strings.
func FromHex(name string, hex []string) (*Colormap, error) {
	colors := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("colormap '%s', color %d: %w", name, i, err)
		}
		colors[i] = c
	}
	return FromList(name, colors)
}

func mustHex(name string, hex ...string) *Colormap {
	cm, err := FromHex(name, hex)
	if err != nil {
		panic(err)
	}
	return cm
}

// At returns the color at t. t is clamped to [0,1] and NaN gives Bad.
func (c *Colormap) At(t float64) color.RGBA {
	if math.IsNaN(t) {
		return Bad
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(c.Stops)-1)
	i := int(pos)
	if i >= len(c.Stops)-1 {
		return rgba(c.Stops[len(c.Stops)-1])
	}
	return rgba(c.Stops[i].BlendRgb(c.Stops[i+1], pos-float64(i)))
}

// Reversed returns a copy with the stops in reverse order. The name gets an
// "_r" suffix, or loses it when already reversed.
func (c *Colormap) Reversed() *Colormap {
	stops := make([]colorful.Color, len(c.Stops))
	for i, s := range c.Stops {
		stops[len(stops)-1-i] = s
	}

	name := c.Name + reversedSuffix
	if base, ok := strings.CutSuffix(c.Name, reversedSuffix); ok {
		name = base
	}
	return &Colormap{Name: name, Stops: stops}
}

// Sample returns n colors evenly spaced over [0,1].
func (c *Colormap) Sample(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []color.RGBA{c.At(0)}
	}

	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = c.At(float64(i) / float64(n-1))
	}
	return out
}

// Hex returns the stops as "#rrggbb" strings.
func (c *Colormap) Hex() []string {
	out := make([]string, len(c.Stops))
	for i, s := range c.Stops {
		out[i] = s.Hex()
	}
	return out
}

func (c *Colormap) String() string {
	return c.Name
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
