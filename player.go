// Package smfseq decodes Standard MIDI Files and plays them back with
// sample-accurate scheduling, either on the audio device, offline into
// buffers, or out to a live MIDI port.
package smfseq

import (
	"errors"
	"io"
	"os"
	"sync"

	intaudio "github.com/cbegin/smfseq-go/internal/audio"
	intfm "github.com/cbegin/smfseq-go/internal/fm"
	intseq "github.com/cbegin/smfseq-go/internal/sequencer"
	intsmf "github.com/cbegin/smfseq-go/internal/smf"
)

// Decode reads a Standard MIDI File from r into its structured model.
func Decode(r io.Reader) (*intsmf.File, error) {
	return intsmf.ReadFile(r)
}

// DecodeFile decodes the SMF file at path.
func DecodeFile(path string) (*intsmf.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return intsmf.ReadFile(f)
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	tempo float64
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{tempo: 120}
}

// WithTempo sets the playback tempo in BPM for metrical files. Tempo is fixed
// per playback; in-stream tempo meta events do not change it.
func WithTempo(bpm float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.tempo = bpm
	}
}

// Player plays decoded MIDI files on the default audio device through the
// bundled FM engine.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	tempo      float64
	volume     float64
	engine     *intfm.Engine
	audio      *intaudio.Player
	done       chan struct{}
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tempo <= 0 {
		return nil, errors.New("tempo must be positive")
	}
	return &Player{
		sampleRate: sampleRate,
		tempo:      cfg.tempo,
		volume:     1,
	}, nil
}

// playbackSource feeds the audio backend from a sequencer and signals when
// the sequence runs out.
type playbackSource struct {
	seq    *intseq.Sequencer
	once   sync.Once
	onDone func()
}

func (s *playbackSource) Process(dst []float32) int {
	n := s.seq.Process(dst)
	if n < len(dst)/2 {
		s.once.Do(s.onDone)
	}
	return n
}

// Play starts playback of a decoded file, replacing any playback in progress.
func (p *Player) Play(file *intsmf.File) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Signal any existing Wait() that the previous playback was replaced.
	if p.done != nil {
		close(p.done)
	}
	p.done = make(chan struct{})

	// Fresh engine per Play so voice state never leaks between songs.
	engine := intfm.New(p.sampleRate, intfm.DefaultParams())
	engine.SetMasterGain(intfm.DefaultParams().MasterGain * p.volume)
	p.engine = engine

	seq := intseq.New(engine, p.sampleRate, intseq.Options{Tempo: p.tempo})
	seq.PlayFile(file)
	source := &playbackSource{seq: seq, onDone: p.signalDone}

	backend, err := intaudio.NewPlayer(p.sampleRate, source)
	if err != nil {
		return err
	}
	if p.audio != nil {
		_ = p.audio.Stop()
	}
	p.audio = backend
	p.audio.Play()
	return nil
}

// PlayData decodes and plays an in-memory SMF file.
func (p *Player) PlayData(r io.Reader) error {
	file, err := intsmf.ReadFile(r)
	if err != nil {
		return err
	}
	return p.Play(file)
}

func (p *Player) signalDone() {
	p.mu.Lock()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until the current playback ends or is stopped. It returns
// immediately when no playback is active.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// SetMasterVolume sets the runtime volume scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.engine != nil {
		p.engine.SetMasterGain(intfm.DefaultParams().MasterGain * p.volume)
	}
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}
