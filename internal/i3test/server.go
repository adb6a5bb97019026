// Package i3test runs an in-process stand-in for the i3 IPC socket.
package i3test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/rbright/i3ipc/wire"
)

// Handler answers one request with zero or more envelopes. Event messages
// may precede or follow the reply, as they can on a real subscribed socket.
type Handler interface {
	Handle(context.Context, wire.Message) []wire.Message
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, wire.Message) []wire.Message

func (f HandlerFunc) Handle(ctx context.Context, req wire.Message) []wire.Message {
	return f(ctx, req)
}

// Replies answers each request type with a fixed payload under the same
// type. Unknown types get an empty JSON object.
func Replies(payloads map[wire.MessageType]string) Handler {
	return HandlerFunc(func(_ context.Context, req wire.Message) []wire.Message {
		payload, ok := payloads[req.Type]
		if !ok {
			payload = "{}"
		}
		return []wire.Message{{Type: req.Type, Payload: []byte(payload)}}
	})
}

// Server is a listening fake socket.
type Server struct {
	Path     string
	listener net.Listener
	cancel   context.CancelFunc
	done     chan error

	closeOnce sync.Once
	closeErr  error
}

// Start listens on a unix socket in dir and serves handler until Close.
func Start(dir string, handler Handler) (*Server, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure socket dir: %w", err)
	}
	path := filepath.Join(dir, "ipc.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", path, err)
	}
	_ = os.Chmod(path, 0o600)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{Path: path, listener: listener, cancel: cancel, done: make(chan error, 1)}
	go func() { s.done <- Serve(ctx, listener, handler) }()
	return s, nil
}

// Close stops accepting, waits for open connections to finish, and returns
// the serve loop's error. Later calls return the same result.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = <-s.done
	})
	return s.closeErr
}

// Serve accepts clients until context cancellation or listener close. Each
// connection is served until the client hangs up.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		conns = map[net.Conn]struct{}{}
	)

	go func() {
		<-ctx.Done()
		_ = listener.Close()
		mu.Lock()
		for c := range conns {
			_ = c.Close()
		}
		mu.Unlock()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept IPC connection: %w", err)
		}

		mu.Lock()
		conns[conn] = struct{}{}
		mu.Unlock()

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer func() {
				mu.Lock()
				delete(conns, c)
				mu.Unlock()
				_ = c.Close()
			}()

			for {
				req, err := wire.ReadMessage(c)
				if err != nil {
					return
				}
				for _, out := range handler.Handle(ctx, req) {
					if err := wire.WriteMessage(c, out); err != nil {
						return
					}
				}
			}
		}(conn)
	}
}
