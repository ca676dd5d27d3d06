package plotter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kpango/glg"
	"github.com/mastercactapus/gcodeplot/spjs"
	"github.com/pkg/errors"
)

// BufferAlgorithm is the SPJS flow control used when opening the port.
var BufferAlgorithm = "marlin"

// batchSize is the number of lines per sendjson command.
const batchSize = 100

var lastID int64

func nextID() string {
	id := atomic.AddInt64(&lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

// SPJSSender sends lines through a Serial Port JSON Server, which takes
// care of flow control with the plotter.
type SPJSSender struct {
	sp   *spjs.SPJS
	port string
	baud int

	cmds    chan senderMessage
	waiting map[string]chan error
	closeCh chan struct{}
}

type senderMessage struct {
	spjs.JSON
	wait chan error
}

// NewSPJSSender sends to the named port on sp, opening it at baud if the
// server reports it closed. Close also closes sp.
func NewSPJSSender(sp *spjs.SPJS, port string, baud int) *SPJSSender {
	s := &SPJSSender{
		sp:      sp,
		port:    port,
		baud:    baud,
		waiting: make(map[string]chan error, 100),
		cmds:    make(chan senderMessage, 1000),
		closeCh: make(chan struct{}),
	}
	go s.loop()

	return s
}

func (s *SPJSSender) Close() error {
	close(s.closeCh)
	return s.sp.Close()
}

func (s *SPJSSender) loop() {
	for {
		select {
		case <-s.closeCh:
			for key, ch := range s.waiting {
				ch <- io.ErrClosedPipe
				delete(s.waiting, key)
			}
			return
		case resp := <-s.sp.Messages():
			s.handle(resp)
		case msg := <-s.cmds:
			err := s.sp.SendJSON(msg.JSON)
			if err != nil {
				msg.wait <- err
				continue
			}
			s.waiting[msg.Data[len(msg.Data)-1].ID] = msg.wait
		}
	}
}

func (s *SPJSSender) handle(resp interface{}) {
	switch msg := resp.(type) {
	case *spjs.DataFrame:
		if msg.Port == s.port {
			glg.Debugf("plotter: %s", strings.TrimSpace(msg.Data))
		}
	case *spjs.ErrorMessage:
		glg.Errorf("spjs: %s", msg.Error)
	case *spjs.CmdStatus:
		switch msg.Cmd {
		case "WipedQueue":
			for key, ch := range s.waiting {
				ch <- errors.New("wiped queue")
				delete(s.waiting, key)
			}
		case "Complete":
			if s.waiting[msg.ID] != nil {
				s.waiting[msg.ID] <- nil
				delete(s.waiting, msg.ID)
			}
		}
	case *spjs.SerialPortList:
		for _, port := range msg.SerialPorts {
			if port.Name != s.port || port.IsOpen {
				continue
			}
			glg.Infof("spjs: opening %s", s.port)
			go s.sp.WriteString(fmt.Sprintf("open %s %d %s", s.port, s.baud, BufferAlgorithm))
		}
	}
}

// ReadFrom queues every non-empty line of r and returns once the server
// reports all of them complete.
func (s *SPJSSender) ReadFrom(r io.Reader) (n int64, err error) {
	scan := bufio.NewScanner(r)
	var waits []chan error
	for {
		var j spjs.JSON
		j.Port = s.port
		for scan.Scan() {
			n += int64(len(scan.Bytes())) + 1
			line := strings.TrimSpace(scan.Text())
			if line == "" || line[0] == ';' {
				continue
			}
			j.Data = append(j.Data, spjs.Data{
				Data: line + "\n",
				ID:   nextID(),
			})
			if len(j.Data) == batchSize {
				break
			}
		}
		if len(j.Data) == 0 {
			break
		}
		wait := make(chan error, 1)
		select {
		case s.cmds <- senderMessage{JSON: j, wait: wait}:
		case <-s.closeCh:
			return n, io.ErrClosedPipe
		}
		waits = append(waits, wait)
	}
	if err := scan.Err(); err != nil {
		return n, err
	}

	for _, wait := range waits {
		select {
		case e := <-wait:
			if e != nil && err == nil {
				err = e
			}
		case <-s.closeCh:
			return n, io.ErrClosedPipe
		}
	}
	return n, err
}
