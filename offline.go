package smfseq

import (
	"encoding/binary"
	"math"

	intfm "github.com/cbegin/smfseq-go/internal/fm"
	intseq "github.com/cbegin/smfseq-go/internal/sequencer"
	intsmf "github.com/cbegin/smfseq-go/internal/smf"
)

// RenderSamples renders up to the given duration of a file through the
// bundled FM engine and returns interleaved stereo samples. The buffer keeps
// its full length; frames past the end of the sequence are silence.
func RenderSamples(file *intsmf.File, sampleRate int, seconds float64, opts ...PlayerOption) []float32 {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine := intfm.New(sampleRate, intfm.DefaultParams())
	seq := intseq.New(engine, sampleRate, intseq.Options{Tempo: cfg.tempo})
	seq.PlayFile(file)
	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	seq.Process(out)
	return out
}

// EncodeWAVFloat32LE wraps interleaved samples in a WAV container
// (format 3, 32-bit float, little-endian).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
