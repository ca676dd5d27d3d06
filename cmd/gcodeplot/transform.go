package main

import (
	"flag"

	"github.com/mastercactapus/gcodeplot/config"
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/pkg/errors"
)

type transformOptions struct {
	translate coord.Point
	scale     float32
}

// apply returns the output file name and the transformed program.
func (o transformOptions) apply(doc *document) (name string, p gcode.Program, err error) {
	if o.scale == 0 {
		return "", nil, errors.New("scale must not be zero")
	}
	name, err = gcode.DerivedName(doc.path, "transformed")
	if err != nil {
		return "", nil, err
	}
	return name, gcode.Transform(doc.program, o.translate, o.scale), nil
}

func transformCmd(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	right := fs.Float64("X", 0, "Translate along +X.")
	up := fs.Float64("Y", 0, "Translate along +Y.")
	left := fs.Float64("x", 0, "Translate along -X.")
	down := fs.Float64("y", 0, "Translate along -Y.")
	scale := fs.Float64("S", 1, "Scale factor, applied before translating.")
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}

	opts := transformOptions{
		translate: coord.Pt(float32(*right-*left), float32(*up-*down)),
		scale:     float32(*scale),
	}
	name, p, err := opts.apply(doc)
	if err != nil {
		return err
	}
	return writeProgram(name, cfg.Encoder(), p)
}
