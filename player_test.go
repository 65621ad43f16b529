package smfseq

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	intsmf "github.com/cbegin/smfseq-go/internal/smf"
)

func smfBytes(t *testing.T, format, ntrks, division uint16, tracks ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, format)
	binary.Write(&buf, binary.BigEndian, ntrks)
	binary.Write(&buf, binary.BigEndian, division)
	for _, track := range tracks {
		buf.WriteString("MTrk")
		binary.Write(&buf, binary.BigEndian, uint32(len(track)))
		buf.Write(track)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	track := []byte{0x00, 0x90, 60, 100, 0x60, 0x80, 60, 0}
	file, err := Decode(bytes.NewReader(smfBytes(t, 0, 1, 96, track)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if file.Format != intsmf.SingleTrack || len(file.Tracks) != 1 {
		t.Fatalf("decoded %v with %d tracks, want single track file", file.Format, len(file.Tracks))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a midi file"))); !errors.Is(err, intsmf.ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestNewPlayerValidation(t *testing.T) {
	if _, err := NewPlayer(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewPlayer(-44100); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
	if _, err := NewPlayer(44100, WithTempo(0)); err == nil {
		t.Fatal("expected error for zero tempo")
	}
	if _, err := NewPlayer(44100, WithTempo(90)); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
}

// Volume accounting works without an audio device; Play is what binds the
// device, so these stay exercisable in CI.
func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	p, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	if got := p.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	p.SetMasterVolume(0.3)
	if got := p.MasterVolume(); got != 0.3 {
		t.Fatalf("master volume = %v, want 0.3", got)
	}
	p.SetMasterVolume(-2)
	if got := p.MasterVolume(); got != 0 {
		t.Fatalf("negative volume should clamp to 0, got %v", got)
	}
}

func TestPlayerWaitWithoutPlayback(t *testing.T) {
	p, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	// Must not block.
	p.Wait()
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop on idle player: %v", err)
	}
}
