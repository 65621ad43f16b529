package smf

import (
	"fmt"
	"io"
)

// byteScanner is what the message decoders need from their input: fixed-size
// reads for data bytes plus single-byte reads for variable-length payloads.
// Both *bytes.Reader and *bufio.Reader satisfy it.
type byteScanner interface {
	io.Reader
	io.ByteReader
}

// UnknownCommandError reports a status byte that matches no known message.
type UnknownCommandError byte

func (e UnknownCommandError) Error() string {
	return fmt.Sprintf("smf: unknown status byte: %#02x", byte(e))
}

// Event is one decoded MIDI event: a channel voice message, a system message,
// or a meta event. Command reports the raw status value of the event with the
// channel nibble cleared.
type Event interface {
	Command() byte
}

// ChannelMessage is an Event addressed to one of the sixteen channels. Data
// returns the message's data bytes in wire order; one-byte messages report
// zero for data2.
type ChannelMessage interface {
	Event
	MessageChannel() Channel
	Data() (data1, data2 byte)
}

// Meta is a track-only event carrying file-level metadata. The payload is
// kept opaque; meta events are never forwarded to sound generation.
type Meta struct {
	MetaType byte
	MetaData []byte
}

func (Meta) Command() byte { return 0xFF }

func (m Meta) String() string {
	return fmt.Sprintf("Meta{type: %#02x, %d bytes}", m.MetaType, len(m.MetaData))
}

// ReadEvent decodes a single event given its leading status byte in the
// stream. Running status is not supported: a data byte in status position
// fails with UnknownCommandError.
func ReadEvent(r byteScanner) (Event, error) {
	status, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 0x80 && status <= 0xEF:
		return readChannelMessage(status, r)
	case status >= 0xF0 && status <= 0xFE:
		return readSystemMessage(status, r)
	case status == 0xFF:
		return readMeta(r)
	default:
		return nil, UnknownCommandError(status)
	}
}

func readMeta(r byteScanner) (Event, error) {
	metaType, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	length, err := ReadVLQ(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return Meta{MetaType: metaType & 0x7F, MetaData: data}, nil
}
