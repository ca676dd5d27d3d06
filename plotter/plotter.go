// Package plotter streams G-code to a pen plotter, either over a local
// serial port or through a Serial Port JSON Server.
package plotter

import (
	"io"

	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/mastercactapus/gcodeplot/spjs"
	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// A Sender delivers G-code lines to a plotter. ReadFrom returns once every
// line has been executed.
type Sender interface {
	ReadFrom(io.Reader) (int64, error)
	Close() error
}

var (
	_ Sender = &Conn{}
	_ Sender = &SPJSSender{}
)

type Config struct {
	// Port is the serial device path, or the port name on the SPJS host.
	Port string
	Baud int
	// SPJS is the websocket URL of a Serial Port JSON Server. When empty
	// Port is opened locally.
	SPJS string
}

const DefaultBaud = 115200

// Open connects to the plotter described by cfg.
func Open(cfg Config) (Sender, error) {
	if cfg.Port == "" {
		return nil, errors.New("no plotter port configured")
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.SPJS != "" {
		return NewSPJSSender(spjs.NewSPJS(cfg.SPJS), cfg.Port, cfg.Baud), nil
	}

	port, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Port)
	}
	return NewConn(port), nil
}

// Send streams p to s, one command per line. Comments are not sent.
func Send(s Sender, p gcode.Program, enc gcode.Encoder) error {
	_, err := s.ReadFrom(gcode.NewBuffer(&gcode.ProgramReader{Program: p}, enc))
	return err
}
