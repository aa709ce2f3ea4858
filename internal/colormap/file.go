package colormap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileCatalog is a Provider backed by a YAML document mapping colormap names
// to lists of hex colors:
//
//	ocean: ["#000033", "#0066cc", "#99ddff"]
//	sunset: ["#2d0b3a", "#c0392b", "#f9d56e"]
//
// Colormaps keep the order of the document.
type FileCatalog struct {
	path string
}

// File returns a catalog read from path. The group name is the file name
// without its extension.
func File(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

func (f *FileCatalog) Name() string {
	return strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
}

func (f *FileCatalog) Colormaps() ([]*Colormap, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading colormap catalog: %w", err)
	}

	cms, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parsing colormap catalog '%s': %w", f.path, err)
	}
	return cms, nil
}

// ParseCatalog decodes a YAML colormap catalog.
func ParseCatalog(data []byte) ([]*Colormap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of colormap names to colors", root.Line)
	}

	cms := make([]*Colormap, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		var hex []string
		if err := value.Decode(&hex); err != nil {
			return nil, fmt.Errorf("colormap '%s': %w", key.Value, err)
		}

		cm, err := FromHex(key.Value, hex)
		if err != nil {
			return nil, err
		}
		cms = append(cms, cm)
	}
	return cms, nil
}
