// Package midiout bridges the sequencer's Synthesizer capability to a live
// MIDI output port. It produces no audio itself: RenderFrame returns silence
// and the connected device does the synthesis.
package midiout

import (
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

const allNotesOff = 123

// Port is a Synthesizer that forwards dispatched channel messages to an OS
// MIDI output port.
type Port struct {
	name string
	send func(gomidi.Message) error
}

// Open connects to the first output port whose name contains the given
// substring; an empty name selects the first available port.
func Open(name string) (*Port, error) {
	for _, out := range gomidi.GetOutPorts() {
		if name != "" && !strings.Contains(out.String(), name) {
			continue
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("midiout: open %q: %w", out.String(), err)
		}
		return &Port{name: out.String(), send: send}, nil
	}
	if name == "" {
		return nil, fmt.Errorf("midiout: no output ports available")
	}
	return nil, fmt.Errorf("midiout: no output port matches %q", name)
}

// Names lists the available output port names.
func Names() []string {
	var names []string
	for _, out := range gomidi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

func (p *Port) Name() string { return p.name }

// Dispatch translates the numeric message form back into a wire message and
// sends it. Unknown commands are dropped silently; a dead port is not an
// error the sequencer can act on.
func (p *Port) Dispatch(channel int, command int, data1 int, data2 int) {
	ch, d1, d2 := uint8(channel), uint8(data1), uint8(data2)
	var msg gomidi.Message
	switch command & 0xF0 {
	case 0x80:
		msg = gomidi.NoteOff(ch, d1)
	case 0x90:
		msg = gomidi.NoteOn(ch, d1, d2)
	case 0xA0:
		msg = gomidi.PolyAfterTouch(ch, d1, d2)
	case 0xB0:
		msg = gomidi.ControlChange(ch, d1, d2)
	case 0xC0:
		msg = gomidi.ProgramChange(ch, d1)
	case 0xD0:
		msg = gomidi.AfterTouch(ch, d1)
	case 0xE0:
		bend := int16(data2<<7|data1) - 8192
		msg = gomidi.Pitchbend(ch, bend)
	default:
		return
	}
	_ = p.send(msg)
}

// RenderFrame satisfies the Synthesizer interface; the device renders.
func (p *Port) RenderFrame() (float32, float32) { return 0, 0 }

// Reset sends All Notes Off on every channel.
func (p *Port) Reset() {
	for ch := uint8(0); ch < 16; ch++ {
		_ = p.send(gomidi.ControlChange(ch, allNotesOff, 0))
	}
}

// Close silences the device and releases the driver.
func (p *Port) Close() {
	p.Reset()
	gomidi.CloseDriver()
}
