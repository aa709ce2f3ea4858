package norm

import (
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

// Settings is the complete input of Active: which base normalization to use,
// its parameters and the histogram equalization switches.
type Settings struct {
	Kind      Kind
	Params    Params
	Equalize  bool
	Symmetric bool
	Bins      int
}

// Active returns the normalization the settings describe: the base norm when
// equalization is off, otherwise a HistogramNorm built over data.
//
// A degenerate histogram does not fail the call. The base norm is returned
// together with an error wrapping ErrDegenerateHistogram, so the returned
// Normalizer is usable whenever it is non-nil.
func Active(s Settings, data *grid.Grid) (Normalizer, error) {
	base, err := Build(s.Kind, s.Params)
	if err != nil {
		return nil, err
	}
	if !s.Equalize {
		return base, nil
	}

	hn, err := Equalize(base, data, s.Symmetric, WithBins(s.Bins))
	if errors.Is(err, ErrDegenerateHistogram) {
		return base, fmt.Errorf("histogram equalization skipped: %w", err)
	}
	if err != nil {
		return nil, err
	}
	return hn, nil
}

// DefaultParams returns the initial parameters for kind derived from the data
// stats. Linear uses the data range, Logarithmic starts at the smallest
// positive value, and SymLog is symmetric around zero with linthresh at 1% of
// the largest magnitude. With robust the 5th/95th percentiles replace the
// extremes.
func DefaultParams(kind Kind, st grid.Stats, robust bool) Params {
	lo, hi := st.Min, st.Max
	if robust && st.P05 < st.P95 {
		lo, hi = st.P05, st.P95
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	}
	if lo >= hi {
		lo, hi = lo-0.5, hi+0.5
	}

	switch kind {
	case Logarithmic:
		vmin := lo
		if vmin <= 0 {
			vmin = st.MinPositive
		}
		if math.IsNaN(vmin) || vmin <= 0 {
			vmin = 1e-3
		}
		vmax := hi
		if vmax <= vmin {
			vmax = vmin * 10
		}
		return Params{VMin: vmin, VMax: vmax}

	case SymLog:
		absMax := math.Max(math.Abs(lo), math.Abs(hi))
		if absMax == 0 {
			absMax = 1
		}
		return Params{VMin: -absMax, VMax: absMax, LinThresh: 1e-2 * absMax, LinScale: 1}
	}

	return Params{VMin: lo, VMax: hi}
}

// Describe returns a one-line summary of n.
func Describe(n Normalizer) string {
	switch v := n.(type) {
	case LinearNorm:
		return fmt.Sprintf("Linear(vmin=%g, vmax=%g)", v.VMin, v.VMax)
	case LogNorm:
		return fmt.Sprintf("Logarithmic(vmin=%g, vmax=%g)", v.VMin, v.VMax)
	case *SymLogNorm:
		return fmt.Sprintf("SymLog(vmin=%g, vmax=%g, linthresh=%g, linscale=%g)", v.VMin, v.VMax, v.LinThresh, v.LinScale)
	case *HistogramNorm:
		mode := "histogram"
		if v.Symmetric {
			mode = "symmetric histogram"
		}
		return fmt.Sprintf("%s equalized %s over %d edges", Describe(v.Base), mode, len(v.CDF.X))
	case nil:
		return "none"
	}
	return fmt.Sprintf("%T", n)
}
