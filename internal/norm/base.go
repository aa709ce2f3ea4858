package norm

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBounds is returned by Build when parameters violate the
// invariants of the requested kind.
var ErrInvalidBounds = errors.New("invalid normalization bounds")

const symLogBase = 10.0

// Normalizer maps raw values into the [0,1] domain consumed by a colormap.
// Values outside [vmin, vmax] map outside [0,1]; values that cannot be
// mapped (e.g. non-positive input to a log norm) map to NaN.
type Normalizer interface {
	Forward(v float64) float64
	Inverse(v float64) float64
}

// Build returns the base normalization for kind, validating p first.
func Build(kind Kind, p Params) (Normalizer, error) {
	if err := Validate(kind, p); err != nil {
		return nil, err
	}

	switch kind {
	case Linear:
		return LinearNorm{VMin: p.VMin, VMax: p.VMax}, nil
	case Logarithmic:
		return LogNorm{VMin: p.VMin, VMax: p.VMax}, nil
	case SymLog:
		return NewSymLogNorm(p.VMin, p.VMax, p.LinThresh, p.LinScale), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
}

// Validate checks p against the invariants of kind: vmin < vmax for all
// kinds, vmin > 0 for Logarithmic, linthresh > 0 and linscale > 0 for SymLog.
func Validate(kind Kind, p Params) error {
	if !isFinite(p.VMin) || !isFinite(p.VMax) {
		return fmt.Errorf("%w: vmin and vmax must be finite", ErrInvalidBounds)
	}
	if p.VMin >= p.VMax {
		return fmt.Errorf("%w: vmin (%g) must be less than vmax (%g)", ErrInvalidBounds, p.VMin, p.VMax)
	}

	switch kind {
	case Linear:
	case Logarithmic:
		if p.VMin <= 0 {
			return fmt.Errorf("%w: vmin (%g) must be positive for a logarithmic norm", ErrInvalidBounds, p.VMin)
		}
	case SymLog:
		if !(p.LinThresh > 0) || !isFinite(p.LinThresh) {
			return fmt.Errorf("%w: linthresh (%g) must be positive", ErrInvalidBounds, p.LinThresh)
		}
		if !(p.LinScale > 0) || !isFinite(p.LinScale) {
			return fmt.Errorf("%w: linscale (%g) must be positive", ErrInvalidBounds, p.LinScale)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return nil
}

// LinearNorm maps [VMin, VMax] linearly onto [0,1].
type LinearNorm struct {
	VMin, VMax float64
}

func (n LinearNorm) Forward(v float64) float64 {
	return (v - n.VMin) / (n.VMax - n.VMin)
}

func (n LinearNorm) Inverse(v float64) float64 {
	return n.VMin + v*(n.VMax-n.VMin)
}

// LogNorm maps [VMin, VMax] onto [0,1] in log10 space.
type LogNorm struct {
	VMin, VMax float64
}

func (n LogNorm) Forward(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return math.NaN()
	}
	lo, hi := math.Log10(n.VMin), math.Log10(n.VMax)
	return (math.Log10(v) - lo) / (hi - lo)
}

func (n LogNorm) Inverse(v float64) float64 {
	lo, hi := math.Log10(n.VMin), math.Log10(n.VMax)
	return math.Pow(10, lo+v*(hi-lo))
}

// SymLogNorm is linear within ±LinThresh and logarithmic (base 10) beyond it.
// LinScale stretches the linear region relative to one decade.
type SymLogNorm struct {
	VMin, VMax          float64
	LinThresh, LinScale float64

	linScaleAdj float64
	tMin, tMax  float64
}

// NewSymLogNorm precomputes the transformed bounds.
func NewSymLogNorm(vmin, vmax, linThresh, linScale float64) *SymLogNorm {
	n := &SymLogNorm{
		VMin:        vmin,
		VMax:        vmax,
		LinThresh:   linThresh,
		LinScale:    linScale,
		linScaleAdj: linScale / (1 - 1/symLogBase),
	}
	n.tMin = n.transform(vmin)
	n.tMax = n.transform(vmax)
	return n
}

func (n *SymLogNorm) transform(a float64) float64 {
	abs := math.Abs(a)
	if abs <= n.LinThresh {
		return a * n.linScaleAdj
	}
	return sign(a) * n.LinThresh * (n.linScaleAdj + math.Log(abs/n.LinThresh)/math.Log(symLogBase))
}

func (n *SymLogNorm) inverseTransform(a float64) float64 {
	abs := math.Abs(a)
	if abs <= n.LinThresh*n.linScaleAdj {
		return a / n.linScaleAdj
	}
	return sign(a) * n.LinThresh * math.Pow(symLogBase, abs/n.LinThresh-n.linScaleAdj)
}

func (n *SymLogNorm) Forward(v float64) float64 {
	return (n.transform(v) - n.tMin) / (n.tMax - n.tMin)
}

func (n *SymLogNorm) Inverse(v float64) float64 {
	return n.inverseTransform(n.tMin + v*(n.tMax-n.tMin))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
