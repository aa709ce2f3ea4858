package session

import (
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
)

// State is every user-controlled input of the shell. It is a value: the
// With methods return modified copies and never touch the receiver.
//
// Each kind keeps its own parameters so switching kinds back and forth does
// not lose what was typed.
type State struct {
	Kind      norm.Kind
	Linear    norm.Params
	Log       norm.Params
	SymLog    norm.Params
	Equalize  bool
	Symmetric bool
	Colormap  string
	Query     string
}

// NewState returns the initial state for data with the given stats: default
// parameters for every kind, Linear selected, equalization off.
func NewState(st grid.Stats, robust bool, cmap string) State {
	return State{
		Kind:     norm.Linear,
		Linear:   norm.DefaultParams(norm.Linear, st, robust),
		Log:      norm.DefaultParams(norm.Logarithmic, st, robust),
		SymLog:   norm.DefaultParams(norm.SymLog, st, robust),
		Colormap: cmap,
	}
}

// Params returns the parameters of the selected kind.
func (s State) Params() norm.Params {
	switch s.Kind {
	case norm.Logarithmic:
		return s.Log
	case norm.SymLog:
		return s.SymLog
	}
	return s.Linear
}

// Settings returns the normalization settings of the state.
func (s State) Settings(bins int) norm.Settings {
	return norm.Settings{
		Kind:      s.Kind,
		Params:    s.Params(),
		Equalize:  s.Equalize,
		Symmetric: s.Symmetric,
		Bins:      bins,
	}
}

func (s State) WithKind(k norm.Kind) State {
	s.Kind = k
	return s
}

// WithParams replaces the parameters of the selected kind.
func (s State) WithParams(p norm.Params) State {
	switch s.Kind {
	case norm.Logarithmic:
		s.Log = p
	case norm.SymLog:
		s.SymLog = p
	default:
		s.Linear = p
	}
	return s
}

func (s State) WithEqualize(on bool) State {
	s.Equalize = on
	return s
}

func (s State) WithSymmetric(on bool) State {
	s.Symmetric = on
	return s
}

func (s State) WithColormap(name string) State {
	s.Colormap = name
	return s
}

func (s State) WithQuery(q string) State {
	s.Query = q
	return s
}
