package plotter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mastercactapus/gcodeplot/spjs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSPJS answers list and sendjson commands the way the server does.
func fakeSPJS(t *testing.T, commands chan<- string, lines chan<- string) string {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			msg := string(data)
			switch {
			case msg == "list":
				ws.WriteMessage(websocket.TextMessage, []byte(`{"SerialPorts":[{"Name":"COM3","IsOpen":false},{"Name":"COM4"}]}`))
			case strings.HasPrefix(msg, "sendjson "):
				var j spjs.JSON
				if err := json.Unmarshal(data[len("sendjson "):], &j); err != nil {
					return
				}
				for _, d := range j.Data {
					lines <- strings.TrimSpace(d.Data)
					ws.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf(`{"Cmd":"Complete","Id":%q,"P":%q}`, d.ID, j.Port)))
				}
			default:
				commands <- msg
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSPJSSender(t *testing.T) {
	commands := make(chan string, 10)
	lines := make(chan string, 500)
	url := fakeSPJS(t, commands, lines)

	s := NewSPJSSender(spjs.NewSPJS(url), "COM3", 250000)
	defer s.Close()

	select {
	case cmd := <-commands:
		assert.Equal(t, "open COM3 250000 marlin", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("port was not opened")
	}

	var src strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&src, "G1 X%d Y0\n", i)
	}
	src.WriteString("\n; done\n")

	done := make(chan error, 1)
	go func() {
		_, err := s.ReadFrom(strings.NewReader(src.String()))
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadFrom did not return")
	}

	got := drain(lines)
	require.Len(t, got, 150)
	assert.Equal(t, "G1 X0 Y0", got[0])
	assert.Equal(t, "G1 X149 Y0", got[149])
}
