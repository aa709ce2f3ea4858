package norm

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLinearNorm_Scenario(t *testing.T) {
	n, err := Build(Linear, Params{VMin: 0, VMax: 10})
	if err != nil {
		t.Fatalf("Failed to build norm: %v", err)
	}

	cases := map[float64]float64{0: 0.0, 10: 1.0, 5: 0.5, 2: 0.2, -5: -0.5, 15: 1.5}
	for in, want := range cases {
		if got := n.Forward(in); !almostEqual(got, want, tolerance) {
			t.Errorf("Forward(%g): expected %g, got %g", in, want, got)
		}
		if got := n.Inverse(want); !almostEqual(got, in, tolerance) {
			t.Errorf("Inverse(%g): expected %g, got %g", want, in, got)
		}
	}
}

func TestLogNorm(t *testing.T) {
	n, err := Build(Logarithmic, Params{VMin: 1, VMax: 100})
	if err != nil {
		t.Fatalf("Failed to build norm: %v", err)
	}

	if got := n.Forward(1); !almostEqual(got, 0, tolerance) {
		t.Errorf("Forward(vmin): expected 0, got %g", got)
	}
	if got := n.Forward(100); !almostEqual(got, 1, tolerance) {
		t.Errorf("Forward(vmax): expected 1, got %g", got)
	}
	if got := n.Forward(10); !almostEqual(got, 0.5, tolerance) {
		t.Errorf("Forward(10): expected 0.5, got %g", got)
	}
	if got := n.Forward(1000); !almostEqual(got, 1.5, tolerance) {
		t.Errorf("Forward(1000): expected 1.5, got %g", got)
	}
	for _, v := range []float64{0, -3, math.NaN()} {
		if got := n.Forward(v); !math.IsNaN(got) {
			t.Errorf("Forward(%g): expected NaN, got %g", v, got)
		}
	}
	for _, v := range []float64{1, 3.7, 42, 100} {
		if got := n.Inverse(n.Forward(v)); !almostEqual(got, v, 1e-9*v) {
			t.Errorf("Inverse(Forward(%g)) = %g", v, got)
		}
	}
}

func TestSymLogNorm(t *testing.T) {
	n, err := Build(SymLog, Params{VMin: -1000, VMax: 1000, LinThresh: 1, LinScale: 1})
	if err != nil {
		t.Fatalf("Failed to build norm: %v", err)
	}

	if got := n.Forward(0); !almostEqual(got, 0.5, tolerance) {
		t.Errorf("Forward(0): expected 0.5, got %g", got)
	}
	if got := n.Forward(-1000); !almostEqual(got, 0, tolerance) {
		t.Errorf("Forward(vmin): expected 0, got %g", got)
	}
	if got := n.Forward(1000); !almostEqual(got, 1, tolerance) {
		t.Errorf("Forward(vmax): expected 1, got %g", got)
	}

	// symmetric around zero
	for _, v := range []float64{0.3, 1, 7, 250} {
		if a, b := n.Forward(v)-0.5, 0.5-n.Forward(-v); !almostEqual(a, b, tolerance) {
			t.Errorf("Forward(±%g) not symmetric: %g vs %g", v, a, b)
		}
	}

	// monotone across the linear/log boundary
	prev := math.Inf(-1)
	for v := -1000.0; v <= 1000; v += 0.25 {
		got := n.Forward(v)
		if got < prev {
			t.Fatalf("Forward not monotone at %g: %g < %g", v, got, prev)
		}
		prev = got
	}

	for _, v := range []float64{-900, -12, -1, -0.4, 0, 0.25, 1, 3, 999} {
		if got := n.Inverse(n.Forward(v)); !almostEqual(got, v, 1e-9*math.Max(1, math.Abs(v))) {
			t.Errorf("Inverse(Forward(%g)) = %g", v, got)
		}
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		kind   Kind
		params Params
		valid  bool
	}{
		{"linear ok", Linear, Params{VMin: -1, VMax: 1}, true},
		{"linear equal bounds", Linear, Params{VMin: 1, VMax: 1}, false},
		{"linear reversed bounds", Linear, Params{VMin: 2, VMax: 1}, false},
		{"linear infinite bound", Linear, Params{VMin: 0, VMax: math.Inf(1)}, false},
		{"log ok", Logarithmic, Params{VMin: 0.1, VMax: 1}, true},
		{"log zero vmin", Logarithmic, Params{VMin: 0, VMax: 1}, false},
		{"log negative vmin", Logarithmic, Params{VMin: -1, VMax: 1}, false},
		{"symlog ok", SymLog, Params{VMin: -1, VMax: 1, LinThresh: 0.1, LinScale: 1}, true},
		{"symlog zero linthresh", SymLog, Params{VMin: -1, VMax: 1, LinThresh: 0, LinScale: 1}, false},
		{"symlog negative linscale", SymLog, Params{VMin: -1, VMax: 1, LinThresh: 0.1, LinScale: -1}, false},
		{"symlog NaN linscale", SymLog, Params{VMin: -1, VMax: 1, LinThresh: 0.1, LinScale: math.NaN()}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.kind, tc.params)
			if tc.valid && err != nil {
				t.Errorf("Expected valid params, got %v", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("Expected ErrInvalidBounds, got %v", err)
			}
		})
	}

	if _, err := Build(Kind(42), Params{VMin: 0, VMax: 1}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	testCases := map[string]Kind{
		"linear":      Linear,
		"Linear":      Linear,
		"lin":         Linear,
		"LOG":         Logarithmic,
		"Logarithmic": Logarithmic,
		" symlog ":    SymLog,
		"SymLog":      SymLog,
	}
	for in, want := range testCases {
		got, err := ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q): expected %v, got %v", in, want, got)
		}
	}

	if _, err := ParseKind("power"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}

	var k Kind
	if err := k.UnmarshalText([]byte("symlog")); err != nil || k != SymLog {
		t.Errorf("UnmarshalText: got %v, %v", k, err)
	}
	if text, err := Logarithmic.MarshalText(); err != nil || string(text) != "logarithmic" {
		t.Errorf("MarshalText: got %q, %v", text, err)
	}
}

func TestParseFloat(t *testing.T) {
	for _, in := range []string{"1", " -2.5 ", "1e-3", "+7"} {
		if _, err := ParseFloat("vmin", in); err != nil {
			t.Errorf("ParseFloat(%q): unexpected error %v", in, err)
		}
	}

	for _, in := range []string{"", "abc", "1,5", "nan", "inf", "-"} {
		_, err := ParseFloat("vmax", in)
		if !errors.Is(err, ErrParse) {
			t.Errorf("ParseFloat(%q): expected ErrParse, got %v", in, err)
			continue
		}

		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseFloat(%q): expected *ParseError, got %T", in, err)
			continue
		}
		if pe.Field != "vmax" || pe.Text != in {
			t.Errorf("ParseFloat(%q): unexpected error fields %+v", in, pe)
		}
	}
}
