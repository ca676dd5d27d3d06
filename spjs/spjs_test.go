package spjs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSPJSMessage(t *testing.T) {
	val, err := parseSPJSMessage([]byte(`{"P":"/dev/ttyUSB0","D":"ok\n"}`))
	require.NoError(t, err)
	assert.Equal(t, &DataFrame{Port: "/dev/ttyUSB0", Data: "ok\n"}, val)

	val, err = parseSPJSMessage([]byte(`{"Cmd":"Complete","Id":"cmd_1","P":"/dev/ttyUSB0"}`))
	require.NoError(t, err)
	assert.Equal(t, &CmdStatus{Cmd: "Complete", ID: "cmd_1"}, val)

	val, err = parseSPJSMessage([]byte(`{"SerialPorts":[{"Name":"COM3","IsOpen":true,"Baud":115200}]}`))
	require.NoError(t, err)
	require.IsType(t, &SerialPortList{}, val)
	assert.Equal(t, "COM3", val.(*SerialPortList).SerialPorts[0].Name)

	val, err = parseSPJSMessage([]byte(`{"Error":"port not open"}`))
	require.NoError(t, err)
	assert.Equal(t, &ErrorMessage{Error: "port not open"}, val)

	_, err = parseSPJSMessage([]byte(`{"Hostname":"bridge"}`))
	assert.Error(t, err)

	_, err = parseSPJSMessage([]byte(`{`))
	assert.Error(t, err)
}

func TestSPJS(t *testing.T) {
	received := make(chan string, 10)
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
			received <- string(data)
			if string(data) == "list" {
				ws.WriteMessage(websocket.TextMessage, []byte("list"))
				ws.WriteMessage(websocket.TextMessage, []byte(`{"SerialPorts":[{"Name":"COM3"}]}`))
			}
		}
	}))
	defer srv.Close()

	sp := NewSPJS("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer sp.Close()

	select {
	case msg := <-received:
		assert.Equal(t, "list", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no list command")
	}

	select {
	case val := <-sp.Messages():
		assert.Equal(t, &SerialPortList{SerialPorts: []SerialPort{{Name: "COM3"}}}, val)
	case <-time.After(5 * time.Second):
		t.Fatal("no port list")
	}

	err := sp.SendJSON(JSON{Port: "COM3", Data: []Data{{Data: "G28\n", ID: "a"}}})
	require.NoError(t, err)
	select {
	case msg := <-received:
		assert.Equal(t, `sendjson {"P":"COM3","Data":[{"D":"G28\n","Id":"a"}]}`, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no sendjson command")
	}
}
