package i3ipc

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/i3ipc/wire"
)

// fakeServer answers each request with the messages reply returns. It runs
// until the client side closes.
type fakeServer struct {
	requests chan wire.Message
	conn     net.Conn
}

func startFakeServer(t *testing.T, reply func(wire.Message) []wire.Message) (*fakeServer, net.Conn) {
	t.Helper()

	client, server := net.Pipe()
	s := &fakeServer{requests: make(chan wire.Message, 16), conn: server}
	go func() {
		defer server.Close()
		for {
			msg, err := wire.ReadMessage(server)
			if err != nil {
				return
			}
			s.requests <- msg
			for _, out := range reply(msg) {
				if err := wire.WriteMessage(server, out); err != nil {
					return
				}
			}
		}
	}()
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

// echoType replies with payload under the request's own message type.
func echoType(payload string) func(wire.Message) []wire.Message {
	return func(req wire.Message) []wire.Message {
		return []wire.Message{{Type: req.Type, Payload: []byte(payload)}}
	}
}

func (s *fakeServer) nextRequest(t *testing.T) wire.Message {
	t.Helper()
	select {
	case msg := <-s.requests:
		return msg
	default:
		require.FailNow(t, "no request received")
		return wire.Message{}
	}
}

// pushEvents writes events from the server side without waiting for a request.
func pushEvents(t *testing.T, w io.Writer, events ...wire.Message) {
	t.Helper()
	go func() {
		for _, ev := range events {
			if err := wire.WriteMessage(w, ev); err != nil {
				return
			}
		}
	}()
}

func eventMessage(t EventType, payload string) wire.Message {
	return wire.Message{Type: wire.MessageType(wire.EventBit | uint32(t)), Payload: []byte(payload)}
}

const leafNodeJSON = `{
	"id": 94,
	"name": "vim",
	"type": "con",
	"border": "pixel",
	"current_border_width": 2,
	"layout": "splith",
	"percent": 0.5,
	"rect": {"x": 0, "y": 0, "width": 960, "height": 1080},
	"window_rect": {"x": 2, "y": 2, "width": 956, "height": 1076},
	"deco_rect": {"x": 0, "y": 0, "width": 0, "height": 0},
	"geometry": {"x": 0, "y": 0, "width": 800, "height": 600},
	"window": 8388614,
	"window_properties": {"class": "Alacritty", "instance": "alacritty", "title": "vim", "transient_for": null},
	"urgent": false,
	"focused": true,
	"focus": [],
	"nodes": [],
	"floating_nodes": []
}`
