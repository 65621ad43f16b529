// Package smf decodes Standard MIDI Files into a structured event model:
// chunk framing, variable-length quantities, the timing division field, and
// channel/system/meta events. Decoding is strict; a malformed file yields a
// single terminal error rather than a partial model. The one tolerated oddity
// is unknown chunk types, which the format reserves for future extensions and
// which ReadFile skips without counting.
package smf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoHeader           = errors.New("smf: file does not start with a header chunk")
	ErrNoTracks           = errors.New("smf: file has no track chunks")
	ErrMultipleHeaders    = errors.New("smf: file contains multiple header chunks")
	ErrType0TooManyTracks = errors.New("smf: type 0 file declares multiple tracks")
)

// UnknownFormatError reports a header format field outside 0-2.
type UnknownFormatError uint16

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("smf: file states unknown format: %d", uint16(e))
}

// Format is the SMF file type from the header chunk.
type Format uint16

const (
	// SingleTrack files (type 0) hold the whole performance in one track.
	SingleTrack Format = 0
	// MultiTrack files (type 1) hold simultaneous tracks of one song.
	MultiTrack Format = 1
	// MultiTrackAsync files (type 2) hold independent single-track songs.
	MultiTrackAsync Format = 2
)

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "single track"
	case MultiTrack:
		return "multi track"
	case MultiTrackAsync:
		return "multi track (async)"
	default:
		return fmt.Sprintf("format %d", uint16(f))
	}
}

func parseFormat(v uint16) (Format, error) {
	if v > 2 {
		return 0, UnknownFormatError(v)
	}
	return Format(v), nil
}

// File is the decoded, immutable model of one SMF file. It is a strict tree
// (File owns Tracks, Tracks own TrackEvents) and is safe for concurrent reads
// once built.
type File struct {
	Format   Format
	NTracks  uint16
	Division Division
	Tracks   []Track
}

// ReadFile decodes a whole SMF file from r. The first chunk must be a header;
// track chunks are then read until the header's declared count is reached,
// skipping unknown chunk types along the way.
func ReadFile(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	header, err := ReadChunk(br)
	if err != nil {
		return nil, err
	}
	if header.Type != ChunkHeader {
		return nil, ErrNoHeader
	}

	format, err := parseFormat(binary.BigEndian.Uint16(header.Data[0:2]))
	if err != nil {
		return nil, err
	}
	ntracks := binary.BigEndian.Uint16(header.Data[2:4])
	if format == SingleTrack && ntracks > 1 {
		return nil, ErrType0TooManyTracks
	}
	division, err := ParseDivision(binary.BigEndian.Uint16(header.Data[4:6]))
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for len(tracks) < int(ntracks) {
		chunk, err := ReadChunk(br)
		if err != nil {
			return nil, fmt.Errorf("smf: chunk %d: %w", len(tracks)+1, err)
		}
		switch chunk.Type {
		case ChunkHeader:
			return nil, ErrMultipleHeaders
		case ChunkTrack:
			track, err := ParseTrack(chunk)
			if err != nil {
				return nil, fmt.Errorf("smf: track %d: %w", len(tracks), err)
			}
			tracks = append(tracks, track)
		default:
			// Unknown chunk: skipped, not counted.
		}
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	return &File{
		Format:   format,
		NTracks:  ntracks,
		Division: division,
		Tracks:   tracks,
	}, nil
}

func (f *File) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "midi file\n")
	fmt.Fprintf(&b, "  format:   %s\n", f.Format)
	fmt.Fprintf(&b, "  ntrks:    %d\n", f.NTracks)
	fmt.Fprintf(&b, "  division: %s\n", f.Division)
	for i, track := range f.Tracks {
		fmt.Fprintf(&b, "  track %d: %d events\n", i, len(track.Events))
	}
	return b.String()
}
