// Package selection reads and writes the chosen colormap and normalization
// as a YAML document. The equalization CDF is never stored: it is rebuilt
// from the data when the document is decoded.
package selection

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/session"
)

// Document is the persisted form of a selection.
type Document struct {
	Colormap    Colormap `yaml:"colormap"`
	Norm        Norm     `yaml:"norm"`
	Description string   `yaml:"description,omitempty"`
}

// Colormap stores the colormap by name and by its stops, so a document can
// be decoded without the catalog it came from.
type Colormap struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

type Norm struct {
	Kind        norm.Kind `yaml:"kind"`
	norm.Params `yaml:",inline"`
	Equalize    bool `yaml:"equalize"`
	Symmetric   bool `yaml:"symmetric,omitempty"`
	Bins        int  `yaml:"bins,omitempty"`
}

// FromResult creates a document from a finished session.
func FromResult(r session.Result, bins int) Document {
	return Document{
		Colormap: Colormap{
			Name:   r.Colormap.Name,
			Colors: r.Colormap.Hex(),
		},
		Norm: Norm{
			Kind:      r.State.Kind,
			Params:    r.State.Params(),
			Equalize:  r.State.Equalize,
			Symmetric: r.State.Symmetric,
			Bins:      bins,
		},
		Description: norm.Describe(r.Norm),
	}
}

// Settings returns the normalization settings of the document.
func (d Document) Settings() norm.Settings {
	return norm.Settings{
		Kind:      d.Norm.Kind,
		Params:    d.Norm.Params,
		Equalize:  d.Norm.Equalize,
		Symmetric: d.Norm.Symmetric,
		Bins:      d.Norm.Bins,
	}
}

// Decode rebuilds the colormap and the active normalization for data. As
// with norm.Active, a skipped equalization returns the base norm together
// with an error wrapping norm.ErrDegenerateHistogram.
func (d Document) Decode(data *grid.Grid) (*colormap.Colormap, norm.Normalizer, error) {
	cm, err := colormap.FromHex(d.Colormap.Name, d.Colormap.Colors)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding colormap: %w", err)
	}

	n, err := norm.Active(d.Settings(), data)
	if n == nil {
		return nil, nil, fmt.Errorf("decoding normalization: %w", err)
	}
	return cm, n, err
}

func (d Document) validate() error {
	if d.Colormap.Name == "" {
		return errors.New("colormap name is missing")
	}
	if len(d.Colormap.Colors) == 0 {
		return fmt.Errorf("colormap '%s' has no colors", d.Colormap.Name)
	}
	return norm.Validate(d.Norm.Kind, d.Norm.Params)
}

// Marshal encodes the document as YAML.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (Document, error) {
	return Load(bytes.NewReader(data))
}

// Save writes d to w as YAML.
func Save(w io.Writer, d Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	return enc.Close()
}

// Load reads and validates a YAML document from r.
func Load(r io.Reader) (Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decoding selection: %w", err)
	}
	if err := d.validate(); err != nil {
		return Document{}, fmt.Errorf("invalid selection: %w", err)
	}
	return d, nil
}

// SaveFile writes d to path.
func SaveFile(path string, d Document) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a document from path.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	return Load(f)
}
