// Package wire implements the i3 IPC envelope: a fixed magic string, a
// little-endian payload length, a little-endian message type, and the
// payload bytes.
//
//	"i3-ipc" | len uint32 LE | type uint32 LE | payload[len]
//
// Replies reuse the request's message type. Events set the highest bit of
// the type; the remaining bits name the event category.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic prefixes every envelope in both directions.
const Magic = "i3-ipc"

// HeaderLength is the size of magic + length + type.
const HeaderLength = len(Magic) + 4 + 4

// MaxPayloadLength bounds a single payload read. A get_tree reply for a large
// session is a few hundred KiB; anything past this is a corrupt length field.
const MaxPayloadLength = 64 * 1024 * 1024

// EventBit marks a message as an asynchronous event rather than a reply.
const EventBit uint32 = 1 << 31

var (
	// ErrBadMagic reports an envelope that does not start with Magic.
	ErrBadMagic = errors.New("wire: unexpected magic string")
	// ErrPayloadTooLarge reports a length field above MaxPayloadLength.
	ErrPayloadTooLarge = errors.New("wire: payload too large")
)

// MessageType is the type tag carried in every envelope.
type MessageType uint32

// Request types. Replies carry the same value back.
const (
	RunCommand      MessageType = 0
	GetWorkspaces   MessageType = 1
	Subscribe       MessageType = 2
	GetOutputs      MessageType = 3
	GetTree         MessageType = 4
	GetMarks        MessageType = 5
	GetBarConfig    MessageType = 6
	GetVersion      MessageType = 7
	GetBindingModes MessageType = 8
	GetConfig       MessageType = 9
)

var messageTypeNames = map[MessageType]string{
	RunCommand:      "run_command",
	GetWorkspaces:   "get_workspaces",
	Subscribe:       "subscribe",
	GetOutputs:      "get_outputs",
	GetTree:         "get_tree",
	GetMarks:        "get_marks",
	GetBarConfig:    "get_bar_config",
	GetVersion:      "get_version",
	GetBindingModes: "get_binding_modes",
	GetConfig:       "get_config",
}

// IsEvent reports whether the event bit is set.
func (t MessageType) IsEvent() bool {
	return uint32(t)&EventBit != 0
}

// EventCategory returns the type with the event bit cleared.
func (t MessageType) EventCategory() uint32 {
	return uint32(t) &^ EventBit
}

func (t MessageType) String() string {
	if t.IsEvent() {
		return fmt.Sprintf("event(%d)", t.EventCategory())
	}
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("message_type(%d)", uint32(t))
}

// Message is one decoded envelope.
type Message struct {
	Type    MessageType
	Payload []byte
}

// Encode builds the complete envelope for payload.
func Encode(t MessageType, payload []byte) []byte {
	buf := make([]byte, HeaderLength+len(payload))
	copy(buf, Magic)
	binary.LittleEndian.PutUint32(buf[6:10], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[10:14], uint32(t))
	copy(buf[HeaderLength:], payload)
	return buf
}

// WriteMessage writes m to w as a single envelope.
func WriteMessage(w io.Writer, m Message) error {
	if _, err := w.Write(Encode(m.Type, m.Payload)); err != nil {
		return fmt.Errorf("write %s envelope: %w", m.Type, err)
	}
	return nil
}

// ReadMessage reads exactly one envelope from r.
//
// The magic is checked before anything else is read, so a mismatch leaves the
// rest of the stream untouched. Invalid UTF-8 in the payload is replaced with
// U+FFFD. A stream that ends mid-envelope yields io.ErrUnexpectedEOF.
func ReadMessage(r io.Reader) (Message, error) {
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Message{}, fmt.Errorf("read magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return Message{}, fmt.Errorf("%w: expected %q but got %q", ErrBadMagic, Magic, magic[:])
	}

	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Message{}, fmt.Errorf("read header: %w", noEOF(err))
	}
	length := binary.LittleEndian.Uint32(header[0:4])
	msgType := MessageType(binary.LittleEndian.Uint32(header[4:8]))
	if length > MaxPayloadLength {
		return Message{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, length, MaxPayloadLength)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, fmt.Errorf("read %s payload: %w", msgType, noEOF(err))
	}

	return Message{Type: msgType, Payload: bytes.ToValidUTF8(payload, []byte("\uFFFD"))}, nil
}

// noEOF promotes a clean EOF after the magic was consumed; the envelope is
// already partially read at that point.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
