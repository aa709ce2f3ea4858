package norm

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

// ErrDegenerateHistogram is returned when the normalized data gives no usable
// distribution: nothing falls inside [0,1], or everything falls in one bin.
var ErrDegenerateHistogram = errors.New("degenerate histogram")

const (
	// DefaultBins is the number of edges of the equalization grid over [0,1].
	DefaultBins = 10_000

	minBins  = 4
	midpoint = 0.5
)

// EqualizeOption configures Equalize.
type EqualizeOption func(*equalizeConfig)

type equalizeConfig struct {
	bins int
}

// WithBins sets the number of edges of the histogram grid. Values below 4
// are ignored.
func WithBins(n int) EqualizeOption {
	return func(c *equalizeConfig) {
		if n >= minBins {
			c.bins = n
		}
	}
}

// CDF is a piecewise-linear empirical cumulative distribution sampled at the
// bin edges X. X is ascending in [0,1], Y[0] = 0 and Y[len-1] = 1.
//
// A symmetric CDF is two cumulative curves glued at Split, the index of the
// first edge above the midpoint. Each piece is non-decreasing on its own but
// the upper piece restarts from 0, so the whole of Y is not monotone. Split
// is 0 for a single curve.
type CDF struct {
	X     []float64
	Y     []float64
	Split int
}

// At interpolates the CDF at x.
func (c CDF) At(x float64) float64 {
	return interp(x, c.X, c.Y)
}

// HistogramNorm remaps the output of a base normalization through an
// empirical CDF so that equal output intervals hold roughly equal data mass.
type HistogramNorm struct {
	Base      Normalizer
	CDF       CDF
	Symmetric bool
}

func (n *HistogramNorm) Forward(v float64) float64 {
	return interp(n.Base.Forward(v), n.CDF.X, n.CDF.Y)
}

// Inverse maps v back through the CDF. On a symmetric CDF a value may be
// reached in both halves; the lower half is taken whenever it reaches v.
func (n *HistogramNorm) Inverse(v float64) float64 {
	return n.Base.Inverse(n.CDF.inverse(v))
}

func (c CDF) inverse(v float64) float64 {
	if c.Split <= 0 || c.Split >= len(c.Y) {
		return interp(v, c.Y, c.X)
	}
	if v <= c.Y[c.Split-1] {
		return interp(v, c.Y[:c.Split], c.X[:c.Split])
	}
	return interp(v, c.Y[c.Split:], c.X[c.Split:])
}

// Equalize builds a HistogramNorm for base over every cell of data.
//
// Without symmetric, one cumulative histogram covers [0,1]. With symmetric,
// the edge grid is split at 0.5 and each half keeps its own running count of
// the values on its side. The two counts are concatenated and divided by the
// final entry, so the upper half ends at 1, the lower half ends at the ratio
// of lower to upper mass, and the curve drops back to 0 across the midpoint.
func Equalize(base Normalizer, data *grid.Grid, symmetric bool, opts ...EqualizeOption) (*HistogramNorm, error) {
	cfg := equalizeConfig{bins: DefaultBins}
	for _, opt := range opts {
		opt(&cfg)
	}

	normData := make([]float64, 0, data.Len())
	data.Each(func(v float64) {
		if nv := base.Forward(v); !math.IsNaN(nv) {
			normData = append(normData, nv)
		}
	})

	edges := floats.Span(make([]float64, cfg.bins), 0, 1)
	edges[len(edges)-1] = 1

	var cdf CDF
	var err error
	if symmetric {
		cdf, err = symmetricCDF(edges, normData)
	} else {
		cdf, err = fullCDF(edges, normData)
	}
	if err != nil {
		return nil, err
	}

	return &HistogramNorm{Base: base, CDF: cdf, Symmetric: symmetric}, nil
}

func fullCDF(edges, values []float64) (CDF, error) {
	h := cumulativeHistogram(edges, values, func(float64) bool { return true })
	if h.total == 0 || h.occupied < 2 {
		return CDF{}, fmt.Errorf("%w: %d samples in %d bins", ErrDegenerateHistogram, int(h.total), h.occupied)
	}

	floats.Scale(1/h.total, h.cum)
	return CDF{X: edges, Y: h.cum}, nil
}

func symmetricCDF(edges, values []float64) (CDF, error) {
	split := sort.SearchFloat64s(edges, midpoint)
	lowerEdges := edges[:split]

	upper := split
	if upper < len(edges) && edges[upper] == midpoint {
		upper++
	}
	upperEdges := edges[upper:]

	lo := cumulativeHistogram(lowerEdges, values, func(v float64) bool { return v < midpoint })
	hi := cumulativeHistogram(upperEdges, values, func(v float64) bool { return v > midpoint })

	// every entry is divided by the last one, which is the upper half's total
	if hi.total == 0 || lo.occupied+hi.occupied < 2 {
		return CDF{}, fmt.Errorf("%w: %d samples in %d bins, %d above the midpoint", ErrDegenerateHistogram,
			int(lo.total+hi.total), lo.occupied+hi.occupied, int(hi.total))
	}

	x := make([]float64, 0, len(lowerEdges)+len(upperEdges))
	x = append(x, lowerEdges...)
	x = append(x, upperEdges...)

	y := make([]float64, 0, len(x))
	y = append(y, lo.cum...)
	y = append(y, hi.cum...)
	floats.Scale(1/hi.total, y)

	return CDF{X: x, Y: y, Split: len(lowerEdges)}, nil
}

type histogram struct {
	cum      []float64 // cumulative count at each edge, cum[0] == 0
	total    float64
	occupied int // number of non-empty bins
}

// cumulativeHistogram counts the values accepted by keep into the bins
// delimited by edges (the last bin is closed) and returns the running count
// at every edge. Values outside [edges[0], edges[last]] are dropped. The
// counts are accumulated as float64 so large grids cannot overflow.
func cumulativeHistogram(edges, values []float64, keep func(float64) bool) histogram {
	if len(edges) < 2 {
		return histogram{cum: make([]float64, len(edges))}
	}

	last := len(edges) - 1
	// The zero sentinel leads instead of trailing, so cum[i] is the mass
	// below edges[i] and the curve starts at 0 on the first edge. A trailing
	// sentinel would shift the whole curve one bin to the left.
	counts := make([]float64, len(edges))
	for _, v := range values {
		if !keep(v) || v < edges[0] || v > edges[last] {
			continue
		}

		bin := sort.SearchFloat64s(edges, v)
		if bin > last || edges[bin] != v {
			bin--
		}
		if bin >= last {
			bin = last - 1
		}
		counts[bin+1]++
	}

	h := histogram{cum: make([]float64, len(edges))}
	for _, c := range counts[1:] {
		if c > 0 {
			h.occupied++
		}
	}
	floats.CumSum(h.cum, counts)
	h.total = h.cum[last]
	return h
}

// interp is piecewise-linear interpolation of (xp, fp) at x. xp must be
// non-decreasing. x below or above the sample range gets the first or last fp.
func interp(x float64, xp, fp []float64) float64 {
	if math.IsNaN(x) || len(xp) == 0 {
		return math.NaN()
	}
	last := len(xp) - 1
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[last] {
		return fp[last]
	}

	// first index with xp[i] > x, so xp[i-1] <= x < xp[i]
	i := sort.Search(len(xp), func(i int) bool { return xp[i] > x })
	x0, x1 := xp[i-1], xp[i]
	return fp[i-1] + (x-x0)*(fp[i]-fp[i-1])/(x1-x0)
}
