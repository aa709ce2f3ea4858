package colormap

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Group is a named list of colormaps from one Provider.
type Group struct {
	Name      string
	Colormaps []*Colormap
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report skipped colormaps.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Registry is the catalog of every available colormap. It is built once from
// a list of providers and never changes afterwards.
type Registry struct {
	groups []Group
	byName map[string]*Colormap
	names  []string // in group order
	logger *slog.Logger
}

// NewRegistry enumerates providers in order. When two providers define the
// same name, the first one wins.
func NewRegistry(providers []Provider, opts ...Option) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Colormap),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, p := range providers {
		cms, err := p.Colormaps()
		if err != nil {
			return nil, fmt.Errorf("loading colormaps of '%s': %w", p.Name(), err)
		}

		g := Group{Name: p.Name()}
		for _, cm := range cms {
			if _, ok := r.byName[cm.Name]; ok {
				r.logger.Debug("duplicate colormap skipped", slog.String("name", cm.Name), slog.String("group", g.Name))
				continue
			}
			r.byName[cm.Name] = cm
			r.names = append(r.names, cm.Name)
			g.Colormaps = append(g.Colormaps, cm)
		}
		r.groups = append(r.groups, g)
	}

	r.logger.Debug("colormap registry ready", slog.Int("groups", len(r.groups)), slog.Int("colormaps", len(r.names)))
	return r, nil
}

// Lookup returns the colormap named name. An exact match wins over a
// case-insensitive one.
func (r *Registry) Lookup(name string) (*Colormap, error) {
	name = strings.TrimSpace(name)
	if cm, ok := r.byName[name]; ok {
		return cm, nil
	}
	for _, n := range r.names {
		if strings.EqualFold(n, name) {
			return r.byName[n], nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", ErrNotFound, name)
}

// Search returns the colormaps whose name contains query, ignoring case, in
// catalog order. An empty query matches everything.
func (r *Registry) Search(query string) []*Colormap {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []*Colormap
	for _, n := range r.names {
		if strings.Contains(strings.ToLower(n), query) {
			out = append(out, r.byName[n])
		}
	}
	return out
}

// Suggest returns up to n names closest to name by edit distance.
func (r *Registry) Suggest(name string, n int) []string {
	if n <= 0 {
		return nil
	}

	type candidate struct {
		name     string
		distance int
	}

	target := []rune(strings.ToLower(name))
	candidates := make([]candidate, 0, len(r.names))
	for _, cn := range r.names {
		d := levenshtein.DistanceForStrings(target, []rune(strings.ToLower(cn)), levenshtein.DefaultOptions)
		candidates = append(candidates, candidate{name: cn, distance: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.name)
	}
	return out
}

// Groups returns the catalog groups in provider order.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// Names returns every colormap name in catalog order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
