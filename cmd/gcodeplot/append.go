package main

import (
	"flag"
	"io"
	"os"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/config"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/mastercactapus/gcodeplot/plot"
	"github.com/pkg/errors"
)

// appendCommands parses added as a continuation of doc and returns the
// output file name and text. Arcs in added are checked from the point where
// doc ends.
func appendCommands(doc *document, added string, enc gcode.Encoder, opts plot.Options) (name, text string, err error) {
	name, err = gcode.DerivedName(doc.path, "added")
	if err != nil {
		return "", "", err
	}
	p, err := gcode.ParseCommentless(added)
	if err != nil {
		logSnippet("added commands", err, added)
		return "", "", errors.Wrap(err, "added commands")
	}
	if len(p) == 0 {
		return "", "", errors.New("no commands to append")
	}

	end := doc.drawing.End
	glg.Debugf("appending %d commands at (%g, %g)", len(p), end.X, end.Y)
	start := gcode.Statement{Line: -1, Command: gcode.RapidMove{X: end.X, Y: end.Y}}
	for _, w := range plot.Trace(append(gcode.Program{start}, p...), opts).Warnings {
		glg.Warnf("added commands: %v", w)
	}

	return name, enc.Resave(doc.text, p.Commands()), nil
}

func appendCmd(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("append", flag.ExitOnError)
	from := fs.String("from", "", "Read commands to append from this file instead of stdin.")
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}

	var data []byte
	if *from != "" {
		data, err = os.ReadFile(*from)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return errors.Wrap(err, "read added commands")
	}

	name, text, err := appendCommands(doc, string(data), cfg.Encoder(), cfg.TraceOptions())
	if err != nil {
		return err
	}
	return writeFile(name, text)
}
