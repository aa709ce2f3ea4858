package colormap

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme names of the spectrum-display palettes.
const (
	ClassicTheme   = "classic"   // Blue to red transition
	GrayscaleTheme = "grayscale" // Black to white transition
	JungleTheme    = "jungle"    // Dark green to yellow transition
	ThermalTheme   = "thermal"   // Black to red to yellow to white
	MarineTheme    = "marine"    // Deep blue to cyan to white
	EnhancedTheme  = "enhanced"  // Black to blue to cyan to yellow to red

	themeStops = 64
)

// Themes returns the spectrum-display palettes, sampled into stop lists.
func Themes() Provider {
	names := []string{ClassicTheme, GrayscaleTheme, JungleTheme, ThermalTheme, MarineTheme, EnhancedTheme}

	colormaps := make([]*Colormap, 0, len(names))
	for _, name := range names {
		colormaps = append(colormaps, sampleTheme(name, themeFunc(name)))
	}
	return NewCatalog("Spectrum Themes", false, colormaps...)
}

func sampleTheme(name string, fn func(float64) colorful.Color) *Colormap {
	stops := make([]colorful.Color, themeStops)
	for i := range stops {
		stops[i] = fn(float64(i) / float64(themeStops-1))
	}
	cm, err := FromList(name, stops)
	if err != nil {
		panic(err)
	}
	return cm
}

func themeFunc(name string) func(float64) colorful.Color {
	switch name {
	case ClassicTheme:
		return func(v float64) colorful.Color {
			return colorful.Hsv(240-(v*240), 0.9+(v*0.1), math.Pow(v, 0.7))
		}

	case GrayscaleTheme:
		return func(v float64) colorful.Color {
			g := math.Pow(v, 0.7)
			return colorful.Color{R: g, G: g, B: g}
		}

	case JungleTheme:
		return func(v float64) colorful.Color {
			return colorful.Hsv(120-(v*60), 1.0, 0.3+(math.Pow(v, 0.6)*0.7))
		}

	case ThermalTheme:
		return func(v float64) colorful.Color {
			switch {
			case v < 1.0/3:
				return colorful.Color{R: v * 3}
			case v < 2.0/3:
				return colorful.Color{R: 1, G: (v - 1.0/3) * 3}
			default:
				return colorful.Color{R: 1, G: 1, B: (v - 2.0/3) * 3}
			}
		}

	case MarineTheme:
		return func(v float64) colorful.Color {
			return colorful.Hsv(240-(v*60), 1.0-(v*0.8), 0.3+(math.Pow(v, 0.6)*0.7))
		}
	}

	// enhanced: better differentiation in the low range
	return func(v float64) colorful.Color {
		enhanced := math.Pow(v, 0.7)

		switch {
		case v < 0.25:
			return colorful.Hsv(240, 1.0, math.Min(1, enhanced*4))
		case v < 0.5:
			return colorful.Hsv(240-((v-0.25)*240), 1.0, math.Min(1, enhanced*1.5))
		case v < 0.75:
			p := (v - 0.5) * 4
			return colorful.Hsv(180-(p*120), 1.0, math.Min(1.0, enhanced*1.5))
		default:
			p := (v - 0.75) * 4
			return colorful.Hsv(60-(p*60), 1.0, 1.0)
		}
	}
}
