package norm

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/roman-kulish/cmap-chooser/internal/grid"
)

func TestActive_PassThrough(t *testing.T) {
	data := mustGrid(t, [][]float64{{0, 5}, {10, 2}})

	testCases := []Settings{
		{Kind: Linear, Params: Params{VMin: 0, VMax: 10}},
		{Kind: Logarithmic, Params: Params{VMin: 1, VMax: 10}},
		{Kind: SymLog, Params: Params{VMin: -10, VMax: 10, LinThresh: 0.1, LinScale: 1}},
		// the symmetric flag alone does nothing
		{Kind: Linear, Params: Params{VMin: 0, VMax: 10}, Symmetric: true},
	}

	for _, s := range testCases {
		t.Run(s.Kind.String(), func(t *testing.T) {
			base, err := Build(s.Kind, s.Params)
			if err != nil {
				t.Fatalf("Failed to build norm: %v", err)
			}

			got, err := Active(s, data)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, base) {
				t.Errorf("Expected base norm %s, got %s", Describe(base), Describe(got))
			}
		})
	}
}

func TestActive_Scenario(t *testing.T) {
	data := mustGrid(t, [][]float64{{0, 5}, {10, 2}})
	s := Settings{Kind: Linear, Params: Params{VMin: 0, VMax: 10}}

	n, err := Active(s, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for in, want := range map[float64]float64{0: 0, 10: 1, 5: 0.5} {
		if got := n.Forward(in); !almostEqual(got, want, tolerance) {
			t.Errorf("equalization off: Forward(%g) expected %g, got %g", in, want, got)
		}
	}

	s.Equalize = true
	n, err = Active(s, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := n.(*HistogramNorm); !ok {
		t.Fatalf("Expected *HistogramNorm, got %T", n)
	}
	if got := n.Forward(0); !almostEqual(got, 0, 1e-3) {
		t.Errorf("equalization on: Forward(0) expected ~0, got %g", got)
	}
	if got := n.Forward(10); !almostEqual(got, 1, 1e-3) {
		t.Errorf("equalization on: Forward(10) expected ~1, got %g", got)
	}
}

func TestActive_Idempotent(t *testing.T) {
	data := evenGrid(t, 30, 40, -3, 9)
	s := Settings{Kind: Linear, Params: Params{VMin: -3, VMax: 9}, Equalize: true, Symmetric: true}

	a, err := Active(s, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := Active(s, data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Active is not idempotent")
	}

	// the input grid is never modified
	values := data.Values()
	if values[0] != -3 || values[len(values)-1] != 9 {
		t.Errorf("Grid was mutated: first %g, last %g", values[0], values[len(values)-1])
	}
}

func TestActive_Degenerate(t *testing.T) {
	data := mustGrid(t, [][]float64{{3, 3}, {3, 3}})
	s := Settings{Kind: Linear, Params: Params{VMin: 0, VMax: 10}, Equalize: true}

	n, err := Active(s, data)
	if !errors.Is(err, ErrDegenerateHistogram) {
		t.Fatalf("Expected ErrDegenerateHistogram, got %v", err)
	}
	if n == nil {
		t.Fatal("Expected the base norm as fallback, got nil")
	}
	if !reflect.DeepEqual(n, LinearNorm{VMin: 0, VMax: 10}) {
		t.Errorf("Expected the base norm as fallback, got %s", Describe(n))
	}
}

func TestActive_InvalidBounds(t *testing.T) {
	data := mustGrid(t, [][]float64{{1, 2}})
	s := Settings{Kind: Logarithmic, Params: Params{VMin: -1, VMax: 10}, Equalize: true}

	n, err := Active(s, data)
	if !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}
	if n != nil {
		t.Errorf("Expected no norm, got %s", Describe(n))
	}
}

func TestDefaultParams(t *testing.T) {
	data := mustGrid(t, [][]float64{{-2, 0.5}, {3, 8}})
	st := grid.ComputeStats(data)

	testCases := []struct {
		kind Kind
		want Params
	}{
		{Linear, Params{VMin: -2, VMax: 8}},
		{Logarithmic, Params{VMin: 0.5, VMax: 8}},
		{SymLog, Params{VMin: -8, VMax: 8, LinThresh: 0.08, LinScale: 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			got := DefaultParams(tc.kind, st, false)
			if !almostEqual(got.VMin, tc.want.VMin, tolerance) ||
				!almostEqual(got.VMax, tc.want.VMax, tolerance) ||
				!almostEqual(got.LinThresh, tc.want.LinThresh, tolerance) ||
				!almostEqual(got.LinScale, tc.want.LinScale, tolerance) {
				t.Errorf("Expected %+v, got %+v", tc.want, got)
			}
			if err := Validate(tc.kind, got); err != nil {
				t.Errorf("Default params are invalid: %v", err)
			}
		})
	}

	// a constant grid still gets usable bounds
	flat := grid.ComputeStats(mustGrid(t, [][]float64{{2, 2}}))
	for _, kind := range Kinds() {
		if err := Validate(kind, DefaultParams(kind, flat, false)); err != nil {
			t.Errorf("%v: default params for a constant grid are invalid: %v", kind, err)
		}
	}

	// no finite values at all
	empty := grid.ComputeStats(mustGrid(t, [][]float64{{math.NaN()}}))
	for _, kind := range Kinds() {
		if err := Validate(kind, DefaultParams(kind, empty, true)); err != nil {
			t.Errorf("%v: default params for an all-NaN grid are invalid: %v", kind, err)
		}
	}
}

func TestDescribe(t *testing.T) {
	data := evenGrid(t, 10, 10, 0, 1)
	hn, err := Equalize(LinearNorm{VMin: 0, VMax: 1}, data, true, WithBins(100))
	if err != nil {
		t.Fatalf("Failed to equalize: %v", err)
	}

	got := Describe(hn)
	for _, want := range []string{"Linear(vmin=0, vmax=1)", "symmetric", "100 edges"} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe: %q does not contain %q", got, want)
		}
	}
}
