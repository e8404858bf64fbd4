// Package config loads icongrid settings from a TOML file.
//
// Every setting has a default, so the file is optional and may set only the
// keys it cares about:
//
//	[grid]
//	cell_width = 100
//	cell_height = 100
//	orientation = "vertical"   # or "horizontal"
//	mode = "centered"          # or "box"
//	vertical_adjust = 32
//	ignore_lazy = false
//
//	[canvas]
//	width = 1920
//	height = 1080
//
//	[store]
//	path = "/home/me/.local/share/icongrid/positions.db"
//	scope = "desktop"
package config

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
)

const appName = "icongrid"

// Defaults applied before the file is read.
const (
	DefaultCellWidth      = 100
	DefaultCellHeight     = 100
	DefaultVerticalAdjust = 32
	DefaultCanvasWidth    = 1920
	DefaultCanvasHeight   = 1080
	DefaultScope          = "default"
)

// Config is the decoded configuration file.
type Config struct {
	Grid   Grid   `toml:"grid"`
	Canvas Canvas `toml:"canvas"`
	Store  Store  `toml:"store"`
}

// Grid holds the layout settings.
type Grid struct {
	CellWidth      float64 `toml:"cell_width"`
	CellHeight     float64 `toml:"cell_height"`
	Orientation    string  `toml:"orientation"`
	Mode           string  `toml:"mode"`
	VerticalAdjust float64 `toml:"vertical_adjust"`
	IgnoreLazy     bool    `toml:"ignore_lazy"`
}

// Canvas is the canvas size used when a scene does not declare one.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Store configures position persistence. An empty Path disables it.
type Store struct {
	Path  string `toml:"path"`
	Scope string `toml:"scope"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: Grid{
			CellWidth:      DefaultCellWidth,
			CellHeight:     DefaultCellHeight,
			Orientation:    grid.OrientationHorizontal,
			Mode:           grid.VariantCentered,
			VerticalAdjust: DefaultVerticalAdjust,
		},
		Canvas: Canvas{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		Store:  Store{Scope: DefaultScope},
	}
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/icongrid/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path on top of Default. A missing file is
// not an error. Unknown keys and invalid values are reported as
// ErrCodeInvalidConfig.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := errors.ValidateSize("grid cell size", c.Grid.CellWidth, c.Grid.CellHeight); err != nil {
		return invalid(err)
	}
	if err := errors.ValidateSize("canvas size", c.Canvas.Width, c.Canvas.Height); err != nil {
		return invalid(err)
	}
	if _, err := grid.ParseOrientation(c.Grid.Orientation); err != nil {
		return invalid(err)
	}
	if _, err := grid.ParseVariant(c.Grid.Mode); err != nil {
		return invalid(err)
	}
	if math.IsNaN(c.Grid.VerticalAdjust) || math.IsInf(c.Grid.VerticalAdjust, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.vertical_adjust must be finite")
	}
	if c.Store.Scope == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.scope cannot be empty")
	}
	if c.Store.Path != "" {
		if err := errors.ValidatePath(c.Store.Path); err != nil {
			return invalid(err)
		}
	}
	return nil
}

// Options converts the configuration into engine options. A non-empty
// canvas overrides the configured one.
func (c *Config) Options(canvas geom.Size) (placement.Options, error) {
	orient, err := grid.ParseOrientation(c.Grid.Orientation)
	if err != nil {
		return placement.Options{}, invalid(err)
	}
	variant, err := grid.ParseVariant(c.Grid.Mode)
	if err != nil {
		return placement.Options{}, invalid(err)
	}
	if canvas.Empty() {
		canvas = geom.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
	}
	return placement.Options{
		Canvas:         canvas,
		Cell:           geom.Size{Width: c.Grid.CellWidth, Height: c.Grid.CellHeight},
		Orientation:    orient,
		Variant:        variant,
		VerticalAdjust: c.Grid.VerticalAdjust,
		IgnoreLazy:     c.Grid.IgnoreLazy,
	}, nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func invalid(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
}
