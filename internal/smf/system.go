package smf

import (
	"fmt"
	"io"
)

// SysEx is a system exclusive message: a manufacturer id followed by an
// opaque payload, terminated on the wire by an end-of-exclusive byte (0xF7).
// The terminator is kept as the last payload byte.
type SysEx struct {
	ID      byte
	SysData []byte
}

// SongPositionPointer carries a 14-bit position in MIDI beats.
type SongPositionPointer struct {
	Position uint16
}

type SongSelect struct {
	Song byte
}

type TuneRequest struct{}
type EndOfExclusive struct{}
type TimingClock struct{}
type Start struct{}
type Continue struct{}
type Stop struct{}
type ActiveSensing struct{}
type Reset struct{}

func (SysEx) Command() byte               { return 0xF0 }
func (SongPositionPointer) Command() byte { return 0xF2 }
func (SongSelect) Command() byte          { return 0xF3 }
func (TuneRequest) Command() byte         { return 0xF6 }
func (EndOfExclusive) Command() byte      { return 0xF7 }
func (TimingClock) Command() byte         { return 0xF8 }
func (Start) Command() byte               { return 0xFA }
func (Continue) Command() byte            { return 0xFB }
func (Stop) Command() byte                { return 0xFC }
func (ActiveSensing) Command() byte       { return 0xFE }
func (Reset) Command() byte               { return 0xFF }

func (m SysEx) String() string {
	return fmt.Sprintf("SysEx{id: %#02x, %d bytes}", m.ID, len(m.SysData))
}

// readSystemMessage decodes a system common or realtime message whose status
// byte has already been read.
func readSystemMessage(status byte, r byteScanner) (Event, error) {
	switch status {
	case 0xF0:
		id, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var data []byte
		for {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			data = append(data, b)
			if b == 0xF7 {
				return SysEx{ID: id & 0x7F, SysData: data}, nil
			}
		}
	case 0xF2:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		position := uint16(buf[1]&0x7F)<<7 | uint16(buf[0]&0x7F)
		return SongPositionPointer{Position: position}, nil
	case 0xF3:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return SongSelect{Song: b & 0x7F}, nil
	case 0xF6:
		return TuneRequest{}, nil
	case 0xF7:
		return EndOfExclusive{}, nil
	case 0xF8:
		return TimingClock{}, nil
	case 0xFA:
		return Start{}, nil
	case 0xFB:
		return Continue{}, nil
	case 0xFC:
		return Stop{}, nil
	case 0xFE:
		return ActiveSensing{}, nil
	default:
		return nil, UnknownCommandError(status)
	}
}
