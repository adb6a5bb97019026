package i3ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/rbright/i3ipc/wire"
)

// Listener reads events from a subscribed connection. It owns the channel
// and is meant for a single consumer; only Close may be called from another
// goroutine, to unblock a pending Next.
type Listener struct {
	rw      io.ReadWriteCloser
	dec     decoder
	pending []wire.Message
	err     error
	closed  atomic.Bool
}

// NewListener wraps an already-connected channel.
func NewListener(rw io.ReadWriteCloser, opts ...Option) *Listener {
	return newListener(rw, buildOptions(opts))
}

func newListener(rw io.ReadWriteCloser, o options) *Listener {
	return &Listener{rw: rw, dec: decoder{log: o.logger}}
}

// Close closes the underlying channel. Pending and future reads fail with
// ErrClosed.
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.rw.Close()
}

// fail records a permanent error, preferring ErrClosed when the failure was
// caused by Close.
func (l *Listener) fail(err error) error {
	if l.closed.Load() {
		err = ErrClosed
	}
	l.err = err
	return err
}

func (l *Listener) check() error {
	if l.closed.Load() {
		return ErrClosed
	}
	return l.err
}

// Subscribe asks for the given event categories. It can be called again to
// widen the subscription; events that arrive ahead of the reply are kept for
// Next.
//
// A reply with success=false returns the result together with
// ErrSubscribeRejected.
func (l *Listener) Subscribe(events ...EventType) (SubscribeResult, error) {
	if err := l.check(); err != nil {
		return SubscribeResult{}, err
	}
	names := make([]string, 0, len(events))
	for _, ev := range events {
		if !ev.Valid() {
			return SubscribeResult{}, fmt.Errorf("i3ipc: cannot subscribe to %s", ev)
		}
		names = append(names, ev.String())
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return SubscribeResult{}, fmt.Errorf("encode subscription: %w", err)
	}

	if err := wire.WriteMessage(l.rw, wire.Message{Type: wire.Subscribe, Payload: payload}); err != nil {
		return SubscribeResult{}, l.fail(&MessageError{Op: OpSend, Type: wire.Subscribe, Err: err})
	}

	for {
		msg, err := wire.ReadMessage(l.rw)
		if err != nil {
			return SubscribeResult{}, l.fail(&MessageError{Op: OpReceive, Type: wire.Subscribe, Err: err})
		}
		if msg.Type.IsEvent() {
			l.pending = append(l.pending, msg)
			continue
		}
		if msg.Type != wire.Subscribe {
			l.err = fmt.Errorf("%w: sent %s, received %s", ErrDesync, wire.Subscribe, msg.Type)
			return SubscribeResult{}, l.err
		}

		result, err := l.dec.subscribe(msg.Payload)
		if err != nil {
			return SubscribeResult{}, err
		}
		if !result.Success {
			return result, ErrSubscribeRejected
		}
		l.dec.log.Debug("subscribed", "events", names)
		return result, nil
	}
}

// Next blocks until the next event arrives and decodes it.
//
// Transport errors and ErrDesync are permanent: every later call returns the
// same error. DecodeError and SchemaError affect only the event that caused
// them.
func (l *Listener) Next() (Event, error) {
	if err := l.check(); err != nil {
		return nil, err
	}

	var msg wire.Message
	if len(l.pending) > 0 {
		msg = l.pending[0]
		l.pending = l.pending[1:]
	} else {
		var err error
		msg, err = wire.ReadMessage(l.rw)
		if err != nil {
			return nil, l.fail(&MessageError{Op: OpReceive, Type: wire.MessageType(wire.EventBit), Err: err})
		}
	}

	if !msg.Type.IsEvent() {
		l.err = fmt.Errorf("%w: expected an event, received %s", ErrDesync, msg.Type)
		return nil, l.err
	}
	return l.dec.event(EventType(msg.Type.EventCategory()), msg.Payload)
}

// Events returns the stream of events as a single-use sequence. It stops
// after the first permanent error, which it yields; decode errors are
// yielded and iteration continues.
func (l *Listener) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := l.Next()
			if !yield(ev, err) {
				return
			}
			if err != nil && l.check() != nil {
				return
			}
		}
	}
}

// IsPermanent reports whether err leaves a Conn or Listener unusable.
func IsPermanent(err error) bool {
	var msgErr *MessageError
	return errors.As(err, &msgErr) || errors.Is(err, ErrDesync) || errors.Is(err, ErrClosed)
}
