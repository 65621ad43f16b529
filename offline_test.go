package smfseq

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestRenderSamples(t *testing.T) {
	track := []byte{
		0x00, 0x90, 69, 100, // note on A4
		0x60, 0x80, 69, 0, // note off 96 ticks later
	}
	file, err := Decode(bytes.NewReader(smfBytes(t, 0, 1, 96, track)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	const sampleRate = 8000
	out := RenderSamples(file, sampleRate, 2.0)
	if len(out) != sampleRate*2*2 {
		t.Fatalf("buffer length = %d, want %d", len(out), sampleRate*2*2)
	}

	var energy float64
	for _, s := range out {
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Fatal("rendered buffer is silent")
	}

	// The note lasts half a second at 120 BPM; the tail of the buffer is
	// silence once the release has run out.
	tail := out[len(out)-1000:]
	for i, s := range tail {
		if s != 0 {
			t.Fatalf("tail sample %d = %v, want silence", i, s)
		}
	}
}

func TestEncodeWAVFloat32LE(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 44100, 2)

	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(samples)*4)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatal("missing fmt/data chunks")
	}
	if format := binary.LittleEndian.Uint16(wav[20:22]); format != 3 {
		t.Fatalf("audio format = %d, want 3 (IEEE float)", format)
	}
	if ch := binary.LittleEndian.Uint16(wav[22:24]); ch != 2 {
		t.Fatalf("channels = %d, want 2", ch)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", rate)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:36]); bits != 32 {
		t.Fatalf("bits per sample = %d, want 32", bits)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); size != uint32(len(samples)*4) {
		t.Fatalf("data size = %d, want %d", size, len(samples)*4)
	}
	for i, want := range samples {
		got := math.Float32frombits(binary.LittleEndian.Uint32(wav[44+i*4:]))
		if got != want {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}
}
