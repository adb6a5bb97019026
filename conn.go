package i3ipc

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rbright/i3ipc/wire"
)

// Conn is a request/reply connection. The protocol correlates a reply with
// the most recent request only by order on the wire, so Conn holds a lock
// across each send/receive pair; callers on different goroutines are
// serialized, never interleaved.
//
// A transport failure or mismatched reply poisons the connection: every later
// call returns the same error. Decode and schema errors abort only the call
// that hit them.
type Conn struct {
	mu     sync.Mutex
	rw     io.ReadWriteCloser
	dec    decoder
	err    error
	closed atomic.Bool
}

// NewConn wraps an already-connected channel.
func NewConn(rw io.ReadWriteCloser, opts ...Option) *Conn {
	return newConn(rw, buildOptions(opts))
}

func newConn(rw io.ReadWriteCloser, o options) *Conn {
	return &Conn{rw: rw, dec: decoder{log: o.logger}}
}

// Close closes the underlying channel. A request blocked on the channel
// returns ErrClosed.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rw.Close()
}

// Request sends one message and returns the raw reply payload. The typed
// methods are built on it.
func (c *Conn) Request(t wire.MessageType, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.err != nil {
		return nil, c.err
	}
	if err := wire.WriteMessage(c.rw, wire.Message{Type: t, Payload: payload}); err != nil {
		return nil, c.fail(&MessageError{Op: OpSend, Type: t, Err: err})
	}
	reply, err := wire.ReadMessage(c.rw)
	if err != nil {
		return nil, c.fail(&MessageError{Op: OpReceive, Type: t, Err: err})
	}
	if reply.Type != t {
		c.err = fmt.Errorf("%w: sent %s, received %s", ErrDesync, t, reply.Type)
		return nil, c.err
	}
	return reply.Payload, nil
}

// fail records a permanent error, preferring ErrClosed when the failure was
// caused by Close.
func (c *Conn) fail(err error) error {
	if c.closed.Load() {
		err = ErrClosed
	}
	c.err = err
	return err
}

// RunCommand runs one or more ;-separated commands and returns one outcome
// per command, in order.
func (c *Conn) RunCommand(command string) ([]CommandOutcome, error) {
	payload, err := c.Request(wire.RunCommand, []byte(command))
	if err != nil {
		return nil, err
	}
	return c.dec.commandOutcomes(payload)
}

// GetWorkspaces lists the current workspaces.
func (c *Conn) GetWorkspaces() ([]Workspace, error) {
	payload, err := c.Request(wire.GetWorkspaces, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.workspaces(payload)
}

// GetOutputs lists the outputs (displays).
func (c *Conn) GetOutputs() ([]Output, error) {
	payload, err := c.Request(wire.GetOutputs, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.outputs(payload)
}

// GetTree returns the root of the layout tree.
func (c *Conn) GetTree() (*Node, error) {
	payload, err := c.Request(wire.GetTree, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.tree(wire.GetTree, payload)
}

// GetMarks lists the marks set on containers, in no particular order.
func (c *Conn) GetMarks() ([]string, error) {
	payload, err := c.Request(wire.GetMarks, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.stringList(wire.GetMarks, "marks", payload)
}

// GetBarIDs lists the configured bar ids.
func (c *Conn) GetBarIDs() ([]string, error) {
	payload, err := c.Request(wire.GetBarConfig, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.stringList(wire.GetBarConfig, "bar ids", payload)
}

// GetBarConfig returns the configuration of the bar with the given id.
func (c *Conn) GetBarConfig(id string) (BarConfig, error) {
	payload, err := c.Request(wire.GetBarConfig, []byte(id))
	if err != nil {
		return BarConfig{}, err
	}
	return c.dec.barConfigPayload(wire.GetBarConfig, payload)
}

// GetVersion returns the window manager's version.
func (c *Conn) GetVersion() (Version, error) {
	payload, err := c.Request(wire.GetVersion, nil)
	if err != nil {
		return Version{}, err
	}
	return c.dec.version(payload)
}

// GetBindingModes lists the configured binding modes. Requires i3 >= 4.13.
func (c *Conn) GetBindingModes() ([]string, error) {
	payload, err := c.Request(wire.GetBindingModes, nil)
	if err != nil {
		return nil, err
	}
	return c.dec.stringList(wire.GetBindingModes, "binding modes", payload)
}

// GetConfig returns the most recently loaded config file. Requires
// i3 >= 4.14.
func (c *Conn) GetConfig() (Config, error) {
	payload, err := c.Request(wire.GetConfig, nil)
	if err != nil {
		return Config{}, err
	}
	return c.dec.config(payload)
}
