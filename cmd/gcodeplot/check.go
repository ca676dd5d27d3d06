package main

import (
	"flag"
	"fmt"

	"github.com/mastercactapus/gcodeplot/config"
)

func checkCmd(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}
	doc.logWarnings()

	d := doc.drawing
	fmt.Printf("%s: %d commands, %d paths, %d arc warnings\n", path, len(doc.program.WithoutComments()), len(d.Paths), len(d.Warnings))
	if !d.Bounds.Empty() {
		fmt.Printf("bounds: (%g, %g) - (%g, %g)\n", d.Bounds.Min.X, d.Bounds.Min.Y, d.Bounds.Max.X, d.Bounds.Max.Y)
	}
	fmt.Printf("ends at: (%g, %g)\n", d.End.X, d.End.Y)
	return nil
}
