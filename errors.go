package i3ipc

import (
	"errors"
	"fmt"

	"github.com/rbright/i3ipc/wire"
)

var (
	// ErrDesync reports a reply whose message type does not match the request
	// or an event where a reply was expected. The connection is unusable
	// afterwards.
	ErrDesync = errors.New("i3ipc: reply does not match request")
	// ErrSubscribeRejected reports a subscribe reply with success=false.
	ErrSubscribeRejected = errors.New("i3ipc: subscription rejected")
	// ErrClosed reports use of a connection after Close.
	ErrClosed = errors.New("i3ipc: connection closed")
)

// ConnectStage names the step of establishing a connection that failed.
type ConnectStage string

const (
	StageSocketPath ConnectStage = "socket path"
	StageDial       ConnectStage = "dial"
)

// ConnectError reports a failure to find or reach the i3 socket, as opposed
// to a failure in a conversation that already started.
type ConnectError struct {
	Stage ConnectStage
	Path  string
	Err   error
}

func (e *ConnectError) Error() string {
	if e.Stage == StageDial && e.Path != "" {
		return fmt.Sprintf("i3ipc: dial %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("i3ipc: resolve %s: %v", e.Stage, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// MessageOp tells whether a transport failure happened while sending or
// receiving.
type MessageOp string

const (
	OpSend    MessageOp = "send"
	OpReceive MessageOp = "receive"
)

// MessageError is an I/O failure while exchanging one envelope, including a
// bad magic string on receive.
type MessageError struct {
	Op   MessageOp
	Type wire.MessageType
	Err  error
}

func (e *MessageError) Error() string {
	what := e.Type.String()
	if e.Type.IsEvent() {
		what = "event"
	}
	return fmt.Sprintf("i3ipc: %s %s: %v", e.Op, what, e.Err)
}

func (e *MessageError) Unwrap() error { return e.Err }

// DecodeError reports a payload that is not valid JSON.
type DecodeError struct {
	Type wire.MessageType
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("i3ipc: decode %s json: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports valid JSON that lacks a required field or carries it
// with the wrong type. The failing call is aborted; the connection stays
// usable.
type SchemaError struct {
	Object string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("i3ipc: %s: field %q", e.Object, e.Field)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + " is missing"
}

func (e *SchemaError) Unwrap() error { return e.Err }

func missing(object, field string) error {
	return &SchemaError{Object: object, Field: field}
}
