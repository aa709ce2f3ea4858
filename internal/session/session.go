package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/render"
)

// ErrAborted is returned when the user leaves the shell without confirming a
// selection.
var ErrAborted = errors.New("selection aborted")

// Result is what a finished session hands back: the chosen colormap and the
// normalization that was active when the user confirmed.
type Result struct {
	Colormap *colormap.Colormap
	Norm     norm.Normalizer
	State    State
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger of the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithBins sets the number of histogram edges used for equalization.
func WithBins(n int) Option {
	return func(s *Session) {
		s.bins = n
	}
}

// WithPreview re-renders the preview image at path after every change.
func WithPreview(path string, renderer *render.Renderer, format render.Format) Option {
	return func(s *Session) {
		s.previewPath = path
		s.renderer = renderer
		s.format = format
	}
}

// Session is the interactive colormap and normalization chooser. It owns the
// data, the catalog, the current state and the normalization built from it.
// A Session is not safe for concurrent use.
type Session struct {
	data     *grid.Grid
	stats    grid.Stats
	registry *colormap.Registry

	state   State           // what the user typed
	valid   State           // the last state that built successfully
	pending error           // why state != valid, nil when they match
	norm    norm.Normalizer // built from valid
	cmap    *colormap.Colormap

	bins        int
	previewPath string
	renderer    *render.Renderer
	format      render.Format
	logger      *slog.Logger
}

// New creates a session over data, starting from initial. The initial state
// must name an existing colormap and valid parameters.
func New(data *grid.Grid, registry *colormap.Registry, initial State, opts ...Option) (*Session, error) {
	s := &Session{
		data:     data,
		stats:    grid.ComputeStats(data),
		registry: registry,
		logger:   slog.Default(),
		format:   render.ImagePNG,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(render.Config{})
	}

	cmap, err := registry.Lookup(initial.Colormap)
	if err != nil {
		return nil, err
	}
	s.cmap = cmap

	if _, err = s.recompute(initial); err != nil {
		return nil, fmt.Errorf("initial normalization: %w", err)
	}

	s.logger.Debug("session started", slog.Any("stats", s.stats), slog.String("colormap", cmap.Name))
	return s, nil
}

// State returns the current state, including values that did not build.
func (s *Session) State() State {
	return s.state
}

// Norm returns the active normalization.
func (s *Session) Norm() norm.Normalizer {
	return s.norm
}

// Colormap returns the selected colormap.
func (s *Session) Colormap() *colormap.Colormap {
	return s.cmap
}

// Result returns the current selection. It fails while the typed parameters
// do not form a valid normalization.
func (s *Session) Result() (Result, error) {
	if s.pending != nil {
		return Result{}, fmt.Errorf("current parameters are not valid: %w", s.pending)
	}
	return Result{Colormap: s.cmap, Norm: s.norm, State: s.valid}, nil
}

// lastValid returns the selection built from the last valid state.
func (s *Session) lastValid() Result {
	return Result{Colormap: s.cmap, Norm: s.norm, State: s.valid}
}

// recompute makes next the current state and rebuilds the active
// normalization from it. When the build fails the previous normalization is
// kept and the error is returned. A skipped equalization is not a failure:
// the base norm is used and a warning is returned.
func (s *Session) recompute(next State) (warning string, err error) {
	s.state = next

	n, err := norm.Active(next.Settings(s.bins), s.data)
	if n != nil && errors.Is(err, norm.ErrDegenerateHistogram) {
		warning, err = err.Error(), nil
	}
	if err != nil {
		s.pending = err
		s.logger.Debug("normalization not rebuilt", slog.String("error", err.Error()))
		return "", err
	}

	s.valid, s.norm, s.pending = next, n, nil
	s.logger.Debug("normalization rebuilt", slog.String("norm", norm.Describe(n)))
	return warning, nil
}

// renderPreview writes the current selection to path.
func (s *Session) renderPreview(path string) error {
	img, err := s.renderer.Render(s.data, s.cmap, s.norm)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}

	format := s.format
	if f, err := render.FormatFromPath(path); err == nil {
		format = f
	}
	if err = render.SaveFile(path, img, format); err != nil {
		return fmt.Errorf("saving preview: %w", err)
	}

	s.logger.Debug("preview rendered", slog.String("path", path))
	return nil
}
