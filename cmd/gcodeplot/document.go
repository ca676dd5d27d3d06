package main

import (
	"os"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/mastercactapus/gcodeplot/plot"
	"github.com/pkg/errors"
)

// document is a loaded G-code file with its traced geometry.
type document struct {
	path    string
	text    string
	program gcode.Program
	drawing plot.Drawing
}

func readDocument(path string, opts plot.Options) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	return parseDocument(path, string(data), opts)
}

func parseDocument(path, text string, opts plot.Options) (*document, error) {
	p, err := gcode.Parse(text)
	if err != nil {
		logSnippet(path, err, text)
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &document{
		path:    path,
		text:    text,
		program: p,
		drawing: plot.Trace(p, opts),
	}, nil
}

// logSnippet logs the source line a parse error points at.
func logSnippet(name string, err error, src string) {
	if snip := gcode.Snippet(err, src); snip != "" {
		glg.Errorf("%s:\n%s", name, snip)
	}
}

func (d *document) logWarnings() {
	for _, w := range d.drawing.Warnings {
		glg.Warnf("%s: %v", d.path, w)
	}
}

func writeFile(name, data string) error {
	err := os.WriteFile(name, []byte(data), 0644)
	if err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	glg.Infof("wrote %s", name)
	return nil
}

func writeProgram(name string, enc gcode.Encoder, p gcode.Program) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create")
	}
	defer f.Close()

	err = enc.WriteProgram(f, p)
	if err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	err = f.Close()
	if err != nil {
		return errors.Wrapf(err, "close %s", name)
	}
	glg.Infof("wrote %s", name)
	return nil
}
