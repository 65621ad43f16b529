// Package sequencer advances a decoded MIDI file tick-by-tick against a
// caller-driven sample clock, forwarding due channel messages to a
// Synthesizer and pulling one stereo frame from it per rendered sample.
package sequencer

import (
	"github.com/cbegin/smfseq-go/internal/smf"
)

// Synthesizer is the external sound-generation capability the sequencer
// drives. The sequencer decodes and schedules; whoever implements this
// interface makes the noise.
type Synthesizer interface {
	// Dispatch forwards a decoded channel message in numeric form. command is
	// the status high nibble (0x80-0xE0); data2 is zero for one-byte messages.
	Dispatch(channel int, command int, data1 int, data2 int)
	// RenderFrame produces the next stereo audio frame.
	RenderFrame() (left, right float32)
	// Reset clears residual voice state when a new file begins playback.
	Reset()
}

const defaultTempo = 120

type Options struct {
	// Tempo in beats per minute. Fixed for the life of the playback; tempo
	// meta events in the stream do not change it. Defaults to 120.
	Tempo float64
	// OnEvent observes every emitted event, including system and meta events
	// that are not forwarded to the synthesizer.
	OnEvent func(track int, event smf.Event)
}

// Sequencer is the playback engine. It owns the loaded file, one cursor per
// track, and the shared sample counter. A Sequencer is single-threaded:
// exactly one RenderSample call at a time.
type Sequencer struct {
	synth        Synthesizer
	sampleRate   int
	tempo        float64
	onEvent      func(int, smf.Event)
	file         *smf.File
	tracks       []trackCursor
	deltaSamples int
}

// trackCursor tracks playback position within one track: the index of the
// next event and the ticks elapsed since the previous emission.
type trackCursor struct {
	events         []smf.TrackEvent
	nextEvent      int
	ticksSinceLast uint32
	started        bool
}

func (c *trackCursor) finished() bool {
	return c.nextEvent == len(c.events)
}

// advanceTick moves the cursor to the next tick boundary, emitting every
// event whose cumulative delta-time lands on it. The first boundary is tick
// zero, so the elapsed counter only advances from the second boundary on.
// Events at the same tick share one boundary: emission loops until the next
// event's delta-time is nonzero or the track runs out.
func (c *trackCursor) advanceTick(emit func(smf.Event)) {
	if c.finished() {
		return
	}
	if !c.started {
		c.started = true
	} else {
		c.ticksSinceLast++
	}
	for !c.finished() && c.ticksSinceLast == c.events[c.nextEvent].Delta {
		emit(c.events[c.nextEvent].Event)
		c.ticksSinceLast = 0
		c.nextEvent++
	}
}

func New(synth Synthesizer, sampleRate int, opts Options) *Sequencer {
	tempo := opts.Tempo
	if tempo <= 0 {
		tempo = defaultTempo
	}
	return &Sequencer{
		synth:      synth,
		sampleRate: sampleRate,
		tempo:      tempo,
		onEvent:    opts.OnEvent,
	}
}

// PlayFile starts playback of a decoded file. The sequencer takes ownership
// of the file; any previous playback state is discarded and the synthesizer
// voice state is cleared.
func (s *Sequencer) PlayFile(file *smf.File) {
	s.tracks = s.tracks[:0]
	for _, track := range file.Tracks {
		s.tracks = append(s.tracks, trackCursor{events: track.Events})
	}
	s.file = file
	s.deltaSamples = 0
	s.synth.Reset()
}

// Finished reports whether every track cursor has exhausted its events.
// A sequencer with no file loaded counts as finished.
func (s *Sequencer) Finished() bool {
	if s.file == nil {
		return true
	}
	for i := range s.tracks {
		if !s.tracks[i].finished() {
			return false
		}
	}
	return true
}

// RenderSample advances the clock by one sample and returns the next stereo
// frame. At most one tick boundary occurs per call; at a boundary, due events
// are dispatched across tracks in ascending track order before the frame is
// rendered. ok is false once playback is exhausted (or no file is loaded);
// no frame is produced then.
func (s *Sequencer) RenderSample() (left, right float32, ok bool) {
	if s.Finished() {
		return 0, 0, false
	}

	tickDuration := s.file.Division.TickDuration(s.tempo)
	// Truncating conversion: fractional samples per tick are dropped,
	// not accumulated.
	tickSamples := int(tickDuration.Seconds() * float64(s.sampleRate))

	if s.deltaSamples >= tickSamples {
		s.deltaSamples = 0
		for i := range s.tracks {
			track := i
			s.tracks[i].advanceTick(func(ev smf.Event) {
				s.emit(track, ev)
			})
		}
	} else {
		s.deltaSamples++
	}

	left, right = s.synth.RenderFrame()
	return left, right, true
}

// Process fills dst with interleaved stereo frames and returns the number of
// frames written. It stops early when playback is exhausted, so a short
// return signals the end of the file.
func (s *Sequencer) Process(dst []float32) int {
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		left, right, ok := s.RenderSample()
		if !ok {
			return f
		}
		dst[f*2] = left
		dst[f*2+1] = right
	}
	return frames
}

func (s *Sequencer) emit(track int, ev smf.Event) {
	if s.onEvent != nil {
		s.onEvent(track, ev)
	}
	// System and meta events stay local: observers may care, the synth
	// does not.
	if cm, isChannel := ev.(smf.ChannelMessage); isChannel {
		data1, data2 := cm.Data()
		s.synth.Dispatch(int(cm.MessageChannel()), int(cm.Command()), int(data1), int(data2))
	}
}
