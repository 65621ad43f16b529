// Package fm is a small polyphonic FM voice engine driven by raw MIDI
// channel messages. It implements the sequencer's Synthesizer capability so
// the repo is playable out of the box; any other implementation can stand in
// for it.
package fm

import (
	"math"
	"sync/atomic"
)

const twoPi = math.Pi * 2

type Params struct {
	Polyphony   int
	ModMul      float64 // modulator frequency ratio
	ModIndex    float64 // modulation depth
	AttackSec   float64
	DecaySec    float64
	SustainLvl  float64
	ReleaseSec  float64
	MasterGain  float64
	VelocityAmp float64
}

func DefaultParams() Params {
	return Params{
		Polyphony:   32,
		ModMul:      2.0,
		ModIndex:    1.4,
		AttackSec:   0.004,
		DecaySec:    0.1,
		SustainLvl:  0.7,
		ReleaseSec:  0.18,
		MasterGain:  0.4,
		VelocityAmp: 0.8,
	}
}

type envState int

const (
	envAttack envState = iota
	envDecay
	envSustain
	envRelease
	envOff
)

type voice struct {
	active       bool
	channel      int
	key          int
	velocity     float64
	freq         float64
	carrierPhase float64
	modPhase     float64
	env          float64
	envState     envState
}

// channelState holds the per-channel controller values Dispatch maintains.
type channelState struct {
	volume  float64 // CC 7, 0-1
	pan     float64 // CC 10, -64..63
	program int
	bend    float64 // pitch bend as a frequency multiplier
}

func defaultChannelState() channelState {
	return channelState{volume: 100.0 / 127.0, pan: 0, bend: 1}
}

type Engine struct {
	sampleRate float64
	params     Params
	voices     []voice
	channels   [16]channelState
	masterGain uint64 // float64 bits, atomic for cross-thread volume control
}

func New(sampleRate int, params Params) *Engine {
	if params.Polyphony <= 0 {
		params.Polyphony = 32
	}
	e := &Engine{
		sampleRate: float64(sampleRate),
		params:     params,
		voices:     make([]voice, params.Polyphony),
	}
	e.Reset()
	e.SetMasterGain(params.MasterGain)
	return e
}

// Dispatch consumes a decoded channel message in (channel, command, data1,
// data2) form. Commands outside the channel voice range are ignored.
func (e *Engine) Dispatch(channel int, command int, data1 int, data2 int) {
	if channel < 0 || channel > 15 {
		return
	}
	switch command & 0xF0 {
	case 0x80:
		e.noteOff(channel, data1)
	case 0x90:
		if data2 == 0 {
			// NoteOn with zero velocity is a note off by convention.
			e.noteOff(channel, data1)
		} else {
			e.noteOn(channel, data1, data2)
		}
	case 0xB0:
		e.controlChange(channel, data1, data2)
	case 0xC0:
		e.channels[channel].program = data1
	case 0xE0:
		value := data2<<7 | data1 // 14-bit, 0x2000 center
		semitones := 2.0 * (float64(value) - 8192.0) / 8192.0
		e.channels[channel].bend = math.Pow(2, semitones/12.0)
	}
}

func (e *Engine) controlChange(channel int, control int, value int) {
	switch control {
	case 7:
		e.channels[channel].volume = float64(value) / 127.0
	case 10:
		e.channels[channel].pan = float64(value) - 64
	case 120, 123: // all sound off / all notes off
		for i := range e.voices {
			if e.voices[i].active && e.voices[i].channel == channel {
				e.voices[i].envState = envRelease
			}
		}
	}
}

func (e *Engine) noteOn(channel int, key int, velocity int) {
	slot := e.stealVoice()
	freq := 440.0 * math.Pow(2, (float64(key)-69.0)/12.0)
	e.voices[slot] = voice{
		active:   true,
		channel:  channel,
		key:      key,
		velocity: float64(velocity) / 127.0,
		freq:     freq,
		envState: envAttack,
	}
}

func (e *Engine) noteOff(channel int, key int) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && v.channel == channel && v.key == key && v.envState != envRelease {
			v.envState = envRelease
		}
	}
}

func (e *Engine) stealVoice() int {
	for i := range e.voices {
		if !e.voices[i].active {
			return i
		}
	}
	// Steal the quietest voice.
	quiet := 0
	minEnv := e.voices[0].env
	for i := 1; i < len(e.voices); i++ {
		if e.voices[i].env < minEnv {
			minEnv = e.voices[i].env
			quiet = i
		}
	}
	return quiet
}

// RenderFrame produces the next stereo frame by summing all sounding voices.
func (e *Engine) RenderFrame() (float32, float32) {
	gain := e.masterGainValue()
	var l, r float64
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		e.advanceEnv(v)
		if v.envState == envOff {
			v.active = false
			continue
		}
		ch := &e.channels[v.channel]

		mod := math.Sin(v.modPhase) * e.params.ModIndex * v.env
		sig := math.Sin(v.carrierPhase+mod) * v.env
		sig *= gain * ch.volume * (0.2 + v.velocity*e.params.VelocityAmp)

		angle := ((ch.pan + 64.0) / 128.0) * (math.Pi / 2.0)
		l += sig * math.Cos(angle)
		r += sig * math.Sin(angle)

		freq := v.freq * ch.bend
		v.carrierPhase += twoPi * freq / e.sampleRate
		if v.carrierPhase > twoPi {
			v.carrierPhase -= twoPi
		}
		v.modPhase += twoPi * freq * e.params.ModMul / e.sampleRate
		if v.modPhase > twoPi {
			v.modPhase -= twoPi
		}
	}
	return float32(clamp(l, -1, 1)), float32(clamp(r, -1, 1))
}

// Reset silences every voice and restores default controller state, as when
// a new file begins playback.
func (e *Engine) Reset() {
	for i := range e.voices {
		e.voices[i] = voice{}
	}
	for i := range e.channels {
		e.channels[i] = defaultChannelState()
	}
}

// ActiveVoiceCount returns the number of voices still sounding, including
// release tails.
func (e *Engine) ActiveVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// SetMasterGain sets the output gain. Safe to call from any goroutine.
func (e *Engine) SetMasterGain(gain float64) {
	atomic.StoreUint64(&e.masterGain, math.Float64bits(gain))
}

func (e *Engine) masterGainValue() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

func (e *Engine) advanceEnv(v *voice) {
	switch v.envState {
	case envAttack:
		step := 1.0 / (e.params.AttackSec * e.sampleRate)
		v.env += step
		if v.env >= 1 {
			v.env = 1
			v.envState = envDecay
		}
	case envDecay:
		step := (1 - e.params.SustainLvl) / (e.params.DecaySec * e.sampleRate)
		v.env -= step
		if v.env <= e.params.SustainLvl {
			v.env = e.params.SustainLvl
			v.envState = envSustain
		}
	case envSustain:
	case envRelease:
		step := 1.0 / (e.params.ReleaseSec * e.sampleRate)
		v.env -= step
		if v.env <= 0.0001 {
			v.env = 0
			v.envState = envOff
		}
	case envOff:
		v.env = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
