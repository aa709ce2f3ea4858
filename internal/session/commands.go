package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
)

// Action tells the caller what to do after a command.
type Action int

const (
	Continue Action = iota
	Done
	Quit
)

// Response is the outcome of one command: what to do next and the text to
// show the user.
type Response struct {
	Action  Action
	Message string
}

const suggestions = 3

const helpText = `commands:
  kind <linear|log|symlog>   select the base normalization
  vmin <x>, vmax <x>         set the bounds of the selected kind
  linthresh <x>              set the SymLog linear threshold
  linscale <x>               set the SymLog linear scale
  hist on|off                toggle histogram equalization
  sym on|off                 equalize each side of the midpoint separately
  search [text]              filter the colormap list, no text clears it
  list                       list colormaps matching the filter
  cmap <name>                select a colormap
  show                       show the current selection
  preview [path]             render the preview image
  done                       confirm the selection
  quit                       leave without a selection`

type handler func(s *Session, arg string) (Response, error)

var commands = map[string]handler{
	"kind":      (*Session).cmdKind,
	"vmin":      paramCommand("vmin", func(p *norm.Params, v float64) { p.VMin = v }),
	"vmax":      paramCommand("vmax", func(p *norm.Params, v float64) { p.VMax = v }),
	"linthresh": paramCommand("linthresh", func(p *norm.Params, v float64) { p.LinThresh = v }),
	"linscale":  paramCommand("linscale", func(p *norm.Params, v float64) { p.LinScale = v }),
	"hist":      flagCommand("hist", State.WithEqualize),
	"sym":       flagCommand("sym", State.WithSymmetric),
	"search":    (*Session).cmdSearch,
	"list":      (*Session).cmdList,
	"cmap":      (*Session).cmdColormap,
	"show":      (*Session).cmdShow,
	"preview":   (*Session).cmdPreview,
	"help":      func(*Session, string) (Response, error) { return Response{Message: helpText}, nil },
	"done":      func(*Session, string) (Response, error) { return Response{Action: Done}, nil },
	"quit":      func(*Session, string) (Response, error) { return Response{Action: Quit}, nil },
}

// Apply runs one shell command. A failing command leaves the session usable:
// a bad number changes nothing, and parameters that do not build are kept in
// the state while the previous normalization stays active.
func (s *Session) Apply(line string) (Response, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return Response{}, nil
	}

	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		return Response{}, fmt.Errorf("unknown command '%s', type help for a list", name)
	}

	resp, err := cmd(s, strings.TrimSpace(arg))
	if err != nil || resp.Action != Continue {
		return resp, err
	}
	if s.previewPath != "" && s.changed(name) {
		if err = s.renderPreview(s.previewPath); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// changed reports whether a command may alter the rendered image.
func (s *Session) changed(name string) bool {
	switch strings.ToLower(name) {
	case "kind", "vmin", "vmax", "linthresh", "linscale", "hist", "sym", "cmap":
		return true
	}
	return false
}

func (s *Session) cmdKind(arg string) (Response, error) {
	k, err := norm.ParseKind(arg)
	if err != nil {
		return Response{}, err
	}
	return s.update(s.state.WithKind(k))
}

func paramCommand(field string, set func(*norm.Params, float64)) handler {
	return func(s *Session, arg string) (Response, error) {
		v, err := norm.ParseFloat(field, arg)
		if err != nil {
			return Response{}, err
		}

		p := s.state.Params()
		set(&p, v)
		return s.update(s.state.WithParams(p))
	}
}

func flagCommand(field string, set func(State, bool) State) handler {
	return func(s *Session, arg string) (Response, error) {
		on, err := parseSwitch(arg)
		if err != nil {
			return Response{}, fmt.Errorf("%s: %w", field, err)
		}
		return s.update(set(s.state, on))
	}
}

func parseSwitch(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got '%s'", arg)
}

// update recomputes the normalization for next and describes the result.
func (s *Session) update(next State) (Response, error) {
	warning, err := s.recompute(next)
	if err != nil {
		return Response{}, fmt.Errorf("%w; keeping %s", err, norm.Describe(s.norm))
	}

	msg := norm.Describe(s.norm)
	if warning != "" {
		msg = "warning: " + warning + "\n" + msg
	}
	return Response{Message: msg}, nil
}

func (s *Session) cmdSearch(arg string) (Response, error) {
	s.state = s.state.WithQuery(arg)
	s.valid = s.valid.WithQuery(arg)
	return s.cmdList("")
}

func (s *Session) cmdList(string) (Response, error) {
	matches := make(map[string]bool)
	for _, cm := range s.registry.Search(s.state.Query) {
		matches[cm.Name] = true
	}

	var sb strings.Builder
	for _, g := range s.registry.Groups() {
		var names []string
		for _, cm := range g.Colormaps {
			if matches[cm.Name] {
				names = append(names, cm.Name)
			}
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s:\n  %s\n", g.Name, strings.Join(names, ", "))
	}

	if sb.Len() == 0 {
		return Response{Message: fmt.Sprintf("no colormap matches '%s'", s.state.Query)}, nil
	}
	return Response{Message: strings.TrimSuffix(sb.String(), "\n")}, nil
}

func (s *Session) cmdColormap(arg string) (Response, error) {
	cm, err := s.registry.Lookup(arg)
	if errors.Is(err, colormap.ErrNotFound) {
		if names := s.registry.Suggest(arg, suggestions); len(names) > 0 {
			return Response{}, fmt.Errorf("%w; did you mean %s?", err, strings.Join(names, ", "))
		}
	}
	if err != nil {
		return Response{}, err
	}

	s.cmap = cm
	s.state = s.state.WithColormap(cm.Name)
	s.valid = s.valid.WithColormap(cm.Name)
	return Response{Message: "colormap " + cm.Name}, nil
}

func (s *Session) cmdShow(string) (Response, error) {
	st := s.state
	p := st.Params()

	var sb strings.Builder
	fmt.Fprintf(&sb, "colormap:   %s\n", s.cmap.Name)
	fmt.Fprintf(&sb, "kind:       %s\n", st.Kind)
	fmt.Fprintf(&sb, "vmin:       %g\n", p.VMin)
	fmt.Fprintf(&sb, "vmax:       %g\n", p.VMax)
	if st.Kind == norm.SymLog {
		fmt.Fprintf(&sb, "linthresh:  %g\n", p.LinThresh)
		fmt.Fprintf(&sb, "linscale:   %g\n", p.LinScale)
	}
	fmt.Fprintf(&sb, "hist:       %s\n", onOff(st.Equalize))
	fmt.Fprintf(&sb, "sym:        %s\n", onOff(st.Symmetric))
	if st.Query != "" {
		fmt.Fprintf(&sb, "search:     %s\n", st.Query)
	}
	fmt.Fprintf(&sb, "data:       min %g, max %g, %d of %d cells finite\n", s.stats.Min, s.stats.Max, s.stats.Finite, s.stats.Count)
	fmt.Fprintf(&sb, "active:     %s", norm.Describe(s.norm))
	if s.pending != nil {
		fmt.Fprintf(&sb, "\npending:    %v", s.pending)
	}
	return Response{Message: sb.String()}, nil
}

func (s *Session) cmdPreview(arg string) (Response, error) {
	path := arg
	if path == "" {
		path = s.previewPath
	}
	if path == "" {
		return Response{}, errors.New("preview: no path given")
	}

	if err := s.renderPreview(path); err != nil {
		return Response{}, err
	}
	return Response{Message: "preview written to " + path}, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
