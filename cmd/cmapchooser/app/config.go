package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/render"
)

const (
	defaultConfigName = ".cmapchooser.yaml"
	defaultColormap   = "viridis"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Engine   EngineConfig  `yaml:"engine"`
	Render   RenderConfig  `yaml:"render"`
	Catalogs CatalogConfig `yaml:"catalogs"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// EngineConfig holds the normalization defaults.
type EngineConfig struct {
	Bins     int    `yaml:"bins"`     // Histogram edges used for equalization
	Kind     string `yaml:"kind"`     // Initial normalization kind
	Robust   bool   `yaml:"robust"`   // Start from the 5th/95th percentiles instead of min/max
	Colormap string `yaml:"colormap"` // Initial colormap
}

// RenderConfig holds the preview and render image settings.
type RenderConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	ColorbarHeight int     `yaml:"colorbarHeight"`
	Ticks          int     `yaml:"ticks"`
	LUTSize        int     `yaml:"lutSize"`
	Format         string  `yaml:"format"`
	FontSize       float64 `yaml:"fontSize"`
	NoAnnotations  bool    `yaml:"noAnnotations"`
}

// CatalogConfig selects the colormap catalogs.
type CatalogConfig struct {
	Builtin bool     `yaml:"builtin"`
	Themes  bool     `yaml:"themes"`
	Files   []string `yaml:"files"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	Database string `yaml:"database"`
}

func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel: "info",
		},
		Engine: EngineConfig{
			Bins:     norm.DefaultBins,
			Kind:     "linear",
			Colormap: defaultColormap,
		},
		Render: RenderConfig{
			Format: string(render.ImagePNG),
		},
		Catalogs: CatalogConfig{
			Builtin: true,
			Themes:  true,
		},
	}
}

// LoadConfig reads the YAML configuration at path on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", path, err)
	}
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("validating '%s': %w", path, err)
	}
	return c, nil
}

// LoadDefaultConfig reads ~/.cmapchooser.yaml. A missing file gives the
// defaults.
func LoadDefaultConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	c, err := LoadConfig(filepath.Join(home, defaultConfigName))
	if errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}
	return c, err
}

// Validate checks the values that cannot be fixed up with defaults.
func (c *Config) Validate() error {
	var err error
	if _, lErr := c.LogLevel(); lErr != nil {
		err = lErr
	} else if _, kErr := norm.ParseKind(c.Engine.Kind); kErr != nil {
		err = kErr
	} else if c.Engine.Bins < 4 {
		err = fmt.Errorf("engine bins must be at least 4, got %d", c.Engine.Bins)
	} else if c.Engine.Colormap == "" {
		err = errors.New("engine colormap is required")
	} else if _, fErr := render.ParseFormat(c.Render.Format); fErr != nil {
		err = fErr
	} else if c.Render.Width < 0 || c.Render.Height < 0 {
		err = fmt.Errorf("invalid render size %dx%d", c.Render.Width, c.Render.Height)
	} else if !c.Catalogs.Builtin && !c.Catalogs.Themes && len(c.Catalogs.Files) == 0 {
		err = errors.New("no colormap catalog enabled")
	}
	return err
}

// LogLevel parses settings.logLevel. An empty value means info.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Settings.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level: %s", c.Settings.LogLevel)
	}
	return level, nil
}

// Kind returns the initial normalization kind.
func (c *Config) Kind() norm.Kind {
	k, _ := norm.ParseKind(c.Engine.Kind)
	return k
}

// RendererConfig maps the render section onto render.Config.
func (c *Config) RendererConfig() render.Config {
	return render.Config{
		Width:          c.Render.Width,
		Height:         c.Render.Height,
		FontSize:       c.Render.FontSize,
		ColorbarHeight: c.Render.ColorbarHeight,
		Ticks:          c.Render.Ticks,
		MapperSize:     c.Render.LUTSize,
		NoAnnotations:  c.Render.NoAnnotations,
	}
}

// Format returns the default image format.
func (c *Config) Format() render.Format {
	f, err := render.ParseFormat(c.Render.Format)
	if err != nil {
		return render.ImagePNG
	}
	return f
}
