// Package config loads gcodeplot settings from a TOML file.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mastercactapus/gcodeplot/arc"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/mastercactapus/gcodeplot/plot"
	"github.com/mastercactapus/gcodeplot/plotter"
	"github.com/mastercactapus/gcodeplot/render"
	"github.com/pkg/errors"
)

// DefaultPath is loaded when no file is named and it exists.
const DefaultPath = "gcodeplot.toml"

type Config struct {
	Tolerance float32 `toml:"tolerance"`

	Arc     Arc     `toml:"arc"`
	Pen     Pen     `toml:"pen"`
	Render  Render  `toml:"render"`
	Plotter Plotter `toml:"plotter"`
	Serve   Serve   `toml:"serve"`
}

type Arc struct {
	PerUnit  float32 `toml:"per_unit"`
	MinSteps int     `toml:"min_steps"`
	MaxSteps int     `toml:"max_steps"`
}

// Pen holds the M280 S values written for pen states.
type Pen struct {
	Down float32 `toml:"down"`
	Up   float32 `toml:"up"`
}

type Render struct {
	Scale  float32 `toml:"scale"`
	Margin int     `toml:"margin"`
	Stroke float32 `toml:"stroke"`
	Grid   float32 `toml:"grid"`
	Debug  int     `toml:"debug"`
}

type Plotter struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
	SPJS string `toml:"spjs"`
}

type Serve struct {
	Addr string `toml:"addr"`
	Hot  bool   `toml:"hot"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Tolerance: arc.DefaultTolerance,
		Arc: Arc{
			PerUnit:  arc.DefaultSteps.PerUnit,
			MinSteps: arc.DefaultSteps.Min,
			MaxSteps: arc.DefaultSteps.Max,
		},
		Pen: Pen{Down: gcode.DefaultEncoder.PenDown, Up: gcode.DefaultEncoder.PenUp},
		Render: Render{
			Scale:  render.DefaultOptions.Scale,
			Margin: render.DefaultOptions.Margin,
			Stroke: render.DefaultOptions.Stroke,
		},
		Plotter: Plotter{Port: "/dev/ttyUSB0", Baud: plotter.DefaultBaud},
		Serve:   Serve{Addr: ":9091", Hot: true},
	}
}

// Load reads path over the defaults. An empty path loads DefaultPath if it
// exists and the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return cfg, nil
		}
		path = DefaultPath
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return cfg, errors.Errorf("load config %s: unknown keys: %s", path, strings.Join(names, ", "))
	}

	return cfg, errors.Wrapf(cfg.Validate(), "load config %s", path)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Tolerance <= 0:
		return errors.New("tolerance must be positive")
	case c.Arc.PerUnit <= 0:
		return errors.New("arc.per_unit must be positive")
	case c.Arc.MinSteps < 1:
		return errors.New("arc.min_steps must be at least 1")
	case c.Arc.MaxSteps < c.Arc.MinSteps:
		return errors.New("arc.max_steps must not be less than arc.min_steps")
	case c.Pen.Down < gcode.PenDownThreshold:
		return errors.Errorf("pen.down must be at least %d", gcode.PenDownThreshold)
	case c.Pen.Up < 0 || c.Pen.Up >= gcode.PenDownThreshold:
		return errors.Errorf("pen.up must be in [0, %d)", gcode.PenDownThreshold)
	case c.Render.Scale <= 0:
		return errors.New("render.scale must be positive")
	case c.Render.Debug < render.DebugNone || c.Render.Debug > render.DebugArrows:
		return errors.Errorf("render.debug must be in [%d, %d]", render.DebugNone, render.DebugArrows)
	case c.Plotter.Baud <= 0:
		return errors.New("plotter.baud must be positive")
	}
	return nil
}

func (c Config) Steps() arc.Steps {
	return arc.Steps{PerUnit: c.Arc.PerUnit, Min: c.Arc.MinSteps, Max: c.Arc.MaxSteps}
}

func (c Config) Encoder() gcode.Encoder {
	return gcode.Encoder{PenDown: c.Pen.Down, PenUp: c.Pen.Up}
}

func (c Config) TraceOptions() plot.Options {
	return plot.Options{Tolerance: c.Tolerance, Steps: c.Steps()}
}

func (c Config) RenderOptions() render.Options {
	return render.Options{
		Scale:  c.Render.Scale,
		Margin: c.Render.Margin,
		Stroke: c.Render.Stroke,
		Grid:   c.Render.Grid,
		Debug:  c.Render.Debug,
	}
}

func (c Config) PlotterConfig() plotter.Config {
	return plotter.Config{Port: c.Plotter.Port, Baud: c.Plotter.Baud, SPJS: c.Plotter.SPJS}
}
