package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/config"
	"github.com/pkg/errors"
)

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, args []string) error
}

var commands = []command{
	{"check", "check FILE\n\tParse FILE and report errors and arc warnings.", checkCmd},
	{"transform", "transform [-X n] [-Y n] [-x n] [-y n] [-S n] FILE\n\tScale then translate FILE into <name>_transformed.gcode.", transformCmd},
	{"append", "append [-from FILE2] FILE\n\tAppend commands (stdin by default) to FILE as <name>_added.gcode.", appendCmd},
	{"render", "render [-o out.png] [-debug n] [-grid n] [-scale n] FILE\n\tDraw FILE to a PNG image.", renderCmd},
	{"serve", "serve [-addr addr] [-hot] FILE\n\tServe previews and the edit API, reloading FILE on change.", serveCmd},
	{"send", "send [-port p] [-baud n] [-spjs url] FILE\n\tStream FILE to the plotter.", sendCmd},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [-config file] [-v] COMMAND [flags] FILE\n\nCommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(out, "  %s\n", c.usage)
	}
	fmt.Fprintln(out, "\nGlobal flags:")
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", "", "TOML settings file (default "+config.DefaultPath+" if present).")
	verbose := flag.Bool("v", false, "Log debug output.")
	flag.Usage = usage
	flag.Parse()

	setupLogging(*verbose)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		glg.Fatalf("%+v", err)
	}

	name := flag.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err = c.run(cfg, flag.Args()[1:])
		if err != nil {
			glg.Fatalf("%s: %v", name, err)
		}
		return
	}

	glg.Errorf("unknown command '%s'", name)
	flag.Usage()
	os.Exit(2)
}

func setupLogging(verbose bool) {
	l := glg.Get().SetMode(glg.STD)
	if !verbose {
		l.SetLevelMode(glg.DEBG, glg.NONE)
	}
}

// fileArg returns the single file argument of a subcommand.
func fileArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", errors.Errorf("expected one FILE argument, got %d", fs.NArg())
	}
	return fs.Arg(0), nil
}
