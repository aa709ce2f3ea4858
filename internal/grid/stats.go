package grid

import (
	"log/slog"
	"math"
	"sort"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"
)

const (
	lowerPercentile = 0.05
	upperPercentile = 0.95
)

// Stats summarises the finite values of a Grid.
type Stats struct {
	Count       int     // Number of cells
	Finite      int     // Number of finite (non-NaN, non-Inf) cells
	Min         float64 // Smallest finite value
	Max         float64 // Largest finite value
	AbsMax      float64 // Largest absolute finite value
	MinPositive float64 // Smallest strictly positive value, NaN if there is none
	Mean        float64 // Mean of finite values
	P05         float64 // 5th percentile of finite values
	P95         float64 // 95th percentile of finite values
}

// ComputeStats scans the grid once and returns its Stats. A grid without any
// finite value gets NaN for every derived field.
func ComputeStats(g *Grid) Stats {
	s := Stats{
		Count:       g.Len(),
		Min:         math.Inf(1),
		Max:         math.Inf(-1),
		MinPositive: math.Inf(1),
	}

	finite := make([]float64, 0, s.Count)
	g.Each(func(v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		finite = append(finite, v)

		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if v > 0 {
			s.MinPositive = math.Min(s.MinPositive, v)
		}
	})
	s.Finite = len(finite)

	if s.Finite == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.AbsMax, s.MinPositive, s.Mean, s.P05, s.P95 = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	if math.IsInf(s.MinPositive, 1) {
		s.MinPositive = math.NaN()
	}

	s.AbsMax = math.Max(math.Abs(s.Min), math.Abs(s.Max))
	s.Mean = stat.Mean(finite, nil)

	sort.Float64s(finite)
	s.P05 = stat.Quantile(lowerPercentile, stat.Empirical, finite, nil)
	s.P95 = stat.Quantile(upperPercentile, stat.Empirical, finite, nil)

	return s
}

// LogValue renders the stats as a structured log group.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cells", humanize.Comma(int64(s.Count))),
		slog.String("finite", humanize.Comma(int64(s.Finite))),
		slog.String("min", humanize.FtoaWithDigits(s.Min, 4)),
		slog.String("max", humanize.FtoaWithDigits(s.Max, 4)),
		slog.String("mean", humanize.FtoaWithDigits(s.Mean, 4)),
		slog.String("p05", humanize.FtoaWithDigits(s.P05, 4)),
		slog.String("p95", humanize.FtoaWithDigits(s.P95, 4)),
	)
}
