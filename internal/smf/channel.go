package smf

import (
	"fmt"
	"io"
)

// Channel is a MIDI channel number, 0-15.
type Channel byte

func channelOf(status byte) Channel { return Channel(status & 0x0F) }

// InvalidKeyError reports a note number outside 0-127.
type InvalidKeyError byte

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("smf: key %d out of range 0-127", byte(e))
}

// Key is a MIDI note number, 0-127. Key 0 is C0 in the octave numbering the
// original format tables use; middle C (60) formats as "C5".
type Key byte

var keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NewKey validates a note number at the decode boundary.
func NewKey(b byte) (Key, error) {
	if b > 127 {
		return 0, InvalidKeyError(b)
	}
	return Key(b), nil
}

func (k Key) String() string {
	return fmt.Sprintf("%s%d", keyNames[k%12], k/12)
}

type NoteOff struct {
	Channel  Channel
	Key      Key
	Velocity byte
}

type NoteOn struct {
	Channel  Channel
	Key      Key
	Velocity byte
}

// AfterTouch is polyphonic key pressure.
type AfterTouch struct {
	Channel  Channel
	Key      Key
	Pressure byte
}

type ControlChange struct {
	Channel Channel
	Control byte
	Value   byte
}

// ChannelMode carries controller numbers 120-127, which the MIDI spec
// reserves for channel mode operations rather than ordinary controllers.
type ChannelMode struct {
	Channel Channel
	Control byte
	Value   byte
}

type ProgramChange struct {
	Channel Channel
	Program byte
}

type ChannelPressure struct {
	Channel Channel
	Value   byte
}

// PitchBend carries a 14-bit bend value; 0x2000 is center.
type PitchBend struct {
	Channel Channel
	Value   uint16
}

func (NoteOff) Command() byte         { return 0x80 }
func (NoteOn) Command() byte          { return 0x90 }
func (AfterTouch) Command() byte      { return 0xA0 }
func (ControlChange) Command() byte   { return 0xB0 }
func (ChannelMode) Command() byte     { return 0xB0 }
func (ProgramChange) Command() byte   { return 0xC0 }
func (ChannelPressure) Command() byte { return 0xD0 }
func (PitchBend) Command() byte       { return 0xE0 }

func (m NoteOff) MessageChannel() Channel         { return m.Channel }
func (m NoteOn) MessageChannel() Channel          { return m.Channel }
func (m AfterTouch) MessageChannel() Channel      { return m.Channel }
func (m ControlChange) MessageChannel() Channel   { return m.Channel }
func (m ChannelMode) MessageChannel() Channel     { return m.Channel }
func (m ProgramChange) MessageChannel() Channel   { return m.Channel }
func (m ChannelPressure) MessageChannel() Channel { return m.Channel }
func (m PitchBend) MessageChannel() Channel       { return m.Channel }

func (m NoteOff) Data() (byte, byte)         { return byte(m.Key), m.Velocity }
func (m NoteOn) Data() (byte, byte)          { return byte(m.Key), m.Velocity }
func (m AfterTouch) Data() (byte, byte)      { return byte(m.Key), m.Pressure }
func (m ControlChange) Data() (byte, byte)   { return m.Control, m.Value }
func (m ChannelMode) Data() (byte, byte)     { return m.Control, m.Value }
func (m ProgramChange) Data() (byte, byte)   { return m.Program, 0 }
func (m ChannelPressure) Data() (byte, byte) { return m.Value, 0 }
func (m PitchBend) Data() (byte, byte) {
	return byte(m.Value & 0x7F), byte(m.Value >> 7)
}

// readChannelMessage decodes a channel voice message whose status byte has
// already been read. Data bytes are masked to 7 bits; key values are then
// range-checked.
func readChannelMessage(status byte, r byteScanner) (Event, error) {
	channel := channelOf(status)
	switch status & 0xF0 {
	case 0x80:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		key, err := NewKey(buf[0] & 0x7F)
		if err != nil {
			return nil, err
		}
		return NoteOff{Channel: channel, Key: key, Velocity: buf[1] & 0x7F}, nil
	case 0x90:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		key, err := NewKey(buf[0] & 0x7F)
		if err != nil {
			return nil, err
		}
		return NoteOn{Channel: channel, Key: key, Velocity: buf[1] & 0x7F}, nil
	case 0xA0:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		key, err := NewKey(buf[0] & 0x7F)
		if err != nil {
			return nil, err
		}
		return AfterTouch{Channel: channel, Key: key, Pressure: buf[1] & 0x7F}, nil
	case 0xB0:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		control := buf[0] & 0x7F
		if control >= 120 {
			return ChannelMode{Channel: channel, Control: control, Value: buf[1] & 0x7F}, nil
		}
		return ControlChange{Channel: channel, Control: control, Value: buf[1] & 0x7F}, nil
	case 0xC0:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return ProgramChange{Channel: channel, Program: b & 0x7F}, nil
	case 0xD0:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return ChannelPressure{Channel: channel, Value: b & 0x7F}, nil
	case 0xE0:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		value := uint16(buf[1]&0x7F)<<7 | uint16(buf[0]&0x7F)
		return PitchBend{Channel: channel, Value: value}, nil
	default:
		return nil, UnknownCommandError(status)
	}
}
