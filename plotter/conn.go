package plotter

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/kpango/glg"
	"github.com/pkg/errors"
)

// RxBufferSize is the default size of the controller's serial receive
// buffer. Lines are only sent while the unacknowledged bytes fit.
const RxBufferSize = 128

// ErrReset will be returned from write methods if the controller restarts
// before all commands are run.
var ErrReset = errors.New("plotter reset")

// ControllerError is an error reported by the controller for a line. The
// line is still acknowledged, so sending may continue.
type ControllerError struct {
	Msg string
}

func (e *ControllerError) Error() string { return e.Msg }

// Conn represents a direct connection to a Marlin-style controller that
// answers every line with "ok".
type Conn struct {
	rw io.ReadWriter

	ackCh   chan error
	resetCh chan struct{}
	closeCh chan struct{}
	deadCh  chan struct{}
	readErr error

	closeOnce sync.Once
	wMx       sync.Mutex

	bufSize   int
	deviceBuf int
	lineSize  []int

	wroteLines int64
	readLines  int64
}

// NewConn creates a new Conn using the provided ReadWriter for data and
// starts reading controller output.
func NewConn(rw io.ReadWriter) *Conn {
	c := &Conn{
		rw:      rw,
		bufSize: RxBufferSize,
		ackCh:   make(chan error, RxBufferSize),
		resetCh: make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		deadCh:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Close will abort any in-progress writes and close the
// underlying ReadWriter, if it implements io.Closer.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		if closer, ok := c.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.deadCh)
	scan := bufio.NewScanner(c.rw)
	var lineErr *ControllerError
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		switch {
		case strings.HasPrefix(line, "ok"):
			select {
			case c.ackCh <- ackErr(lineErr):
			case <-c.closeCh:
				return
			}
			lineErr = nil
		case strings.HasPrefix(line, "Error:"), strings.HasPrefix(line, "error:"):
			// Marlin still acknowledges the line afterwards
			if lineErr == nil {
				lineErr = &ControllerError{Msg: line}
			}
		case line == "start":
			lineErr = nil
			select {
			case c.resetCh <- struct{}{}:
			default:
			}
		case line != "":
			glg.Debugf("plotter: %s", line)
		}
	}
	c.readErr = scan.Err()
	if c.readErr == nil {
		c.readErr = io.ErrUnexpectedEOF
	}
}

func ackErr(e *ControllerError) error {
	if e == nil {
		return nil
	}
	return e
}

func (c *Conn) recordBufferSpace(n int) int64 {
	c.deviceBuf += n
	c.wroteLines++
	c.lineSize = append(c.lineSize, n)
	return c.wroteLines
}

func (c *Conn) waitForBufferSpace(n int) (err error) {
	for len(c.lineSize) > 0 && c.deviceBuf+n > c.bufSize {
		e := c.next()
		if e == nil {
			continue
		}
		if _, ok := e.(*ControllerError); !ok {
			return e
		}
		if err == nil {
			err = e
		}
	}
	return err
}

func (c *Conn) reset() {
	for len(c.ackCh) > 0 {
		<-c.ackCh
	}
	c.deviceBuf = 0
	c.lineSize = nil
	c.readLines = c.wroteLines
}

func (c *Conn) next() error {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	default:
	}

	select {
	case <-c.resetCh:
		c.reset()
		return ErrReset
	case e := <-c.ackCh:
		return c.ack(e)
	default:
	}

	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	case <-c.deadCh:
		return errors.Wrap(c.readErr, "read from plotter")
	case <-c.resetCh:
		c.reset()
		return ErrReset
	case e := <-c.ackCh:
		return c.ack(e)
	}
}

func (c *Conn) ack(e error) error {
	if len(c.lineSize) == 0 {
		// unsolicited, nothing outstanding
		return nil
	}
	c.readLines++
	c.deviceBuf -= c.lineSize[0]
	c.lineSize = c.lineSize[1:]
	return e
}

func (c *Conn) waitForLine(id int64) (err error) {
	for c.readLines < id {
		e := c.next()
		if e == nil {
			continue
		}
		if _, ok := e.(*ControllerError); !ok {
			return e
		}
		if err == nil {
			err = e
		}
	}
	return err
}

// writeLine will block until line has been written to the serial device in full.
//
// It returns the line index.
func (c *Conn) writeLine(line []byte) (id int64, err error) {
	err = c.waitForBufferSpace(len(line))
	if _, ok := err.(*ControllerError); err != nil && !ok {
		return 0, err
	}
	_, werr := c.rw.Write(line)
	if werr != nil {
		return 0, errors.Wrap(werr, "write to plotter")
	}
	id = c.recordBufferSpace(len(line))
	return id, err
}

func splitLinesKeepN(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ReadFrom sends every non-empty line of r and returns after all of them
// have been acknowledged. The first controller error is returned.
func (c *Conn) ReadFrom(r io.Reader) (n int64, err error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	select {
	case <-c.closeCh:
		return 0, io.ErrClosedPipe
	default:
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(splitLinesKeepN)

	lastID := c.wroteLines
	var firstErr error
	for scanner.Scan() {
		n += int64(len(scanner.Bytes()))
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		lastID, err = c.writeLine(append(line[:len(line):len(line)], '\n'))
		if err != nil {
			if _, ok := err.(*ControllerError); !ok {
				return n, err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}

	err = c.waitForLine(lastID)
	if firstErr != nil {
		return n, firstErr
	}
	return n, err
}

// Write will return after all lines have been sent and executed.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.ReadFrom(bytes.NewReader(p))
	return int(n), err
}
