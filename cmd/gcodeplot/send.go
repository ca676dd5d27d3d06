package main

import (
	"flag"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/config"
	"github.com/mastercactapus/gcodeplot/plotter"
	"github.com/pkg/errors"
)

func sendCmd(cfg config.Config, args []string) error {
	pc := cfg.PlotterConfig()
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	port := fs.String("port", pc.Port, "Port path (or name if using SPJS).")
	baud := fs.Int("baud", pc.Baud, "Baud rate.")
	spjsURL := fs.String("spjs", pc.SPJS, "Websocket URL of the SPJS server to use.")
	fs.Parse(args)
	path, err := fileArg(fs)
	if err != nil {
		return err
	}
	pc.Port, pc.Baud, pc.SPJS = *port, *baud, *spjsURL

	doc, err := readDocument(path, cfg.TraceOptions())
	if err != nil {
		return err
	}
	doc.logWarnings()

	s, err := plotter.Open(pc)
	if err != nil {
		return err
	}
	defer s.Close()

	glg.Infof("sending %s to %s", path, pc.Port)
	err = plotter.Send(s, doc.program, cfg.Encoder())
	if err != nil {
		return errors.Wrap(err, "send")
	}
	glg.Infof("done")
	return nil
}
