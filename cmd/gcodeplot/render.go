package main

import (
	"flag"
	"image/png"
	"os"
	"strings"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/config"
	"github.com/mastercactapus/gcodeplot/render"
	"github.com/pkg/errors"
)

func renderCmd(cfg config.Config, args []string) error {
	opts := cfg.RenderOptions()
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default FILE with a .png extension).")
	debug := fs.Int("debug", opts.Debug, "Debug level: 1 travel moves, 2 arc construction, 3 travel arrows.")
	grid := fs.Float64("grid", float64(opts.Grid), "Grid spacing in file units, 0 for none.")
	scale := fs.Float64("scale", float64(opts.Scale), "Pixels per file unit.")
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}
	opts.Debug = *debug
	opts.Grid = float32(*grid)
	opts.Scale = float32(*scale)

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}
	doc.logWarnings()

	name := *out
	if name == "" {
		name = strings.TrimSuffix(path, ".gcode") + ".png"
	}
	img, err := render.Image(doc.drawing, opts)
	if err != nil {
		return errors.Wrap(err, "render")
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create image")
	}
	defer f.Close()

	err = png.Encode(f, img)
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	glg.Infof("wrote %s", name)
	return f.Close()
}
