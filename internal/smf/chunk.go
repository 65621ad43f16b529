package smf

import (
	"encoding/binary"
	"fmt"
	"io"
)

type ChunkType int

const (
	// ChunkUnknown covers any tag other than MThd/MTrk. The format reserves
	// such chunks for future extensions; readers skip them.
	ChunkUnknown ChunkType = iota
	ChunkHeader
	ChunkTrack
)

func (t ChunkType) String() string {
	switch t {
	case ChunkHeader:
		return "MThd"
	case ChunkTrack:
		return "MTrk"
	default:
		return "unknown"
	}
}

// UnexpectedHeaderLengthError reports an MThd chunk whose declared length is
// not the required 6 bytes.
type UnexpectedHeaderLengthError uint32

func (e UnexpectedHeaderLengthError) Error() string {
	return fmt.Sprintf("smf: header chunk length is %d, want 6", uint32(e))
}

// Chunk is one framed chunk of an SMF file: a 4-byte tag, a length, and
// exactly that many payload bytes. Unknown tags still carry their payload so
// callers can skip past them.
type Chunk struct {
	Type   ChunkType
	Tag    [4]byte
	Length uint32
	Data   []byte
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s chunk, %d bytes", c.Type, c.Length)
}

func classifyTag(tag [4]byte) ChunkType {
	switch string(tag[:]) {
	case "MThd":
		return ChunkHeader
	case "MTrk":
		return ChunkTrack
	default:
		return ChunkUnknown
	}
}

// ReadChunk frames the next chunk from r. The payload is always consumed,
// even for unknown tags, so the reader is positioned at the following chunk.
func ReadChunk(r io.Reader) (Chunk, error) {
	var tag [4]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return Chunk{}, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Chunk{}, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])

	chunkType := classifyTag(tag)
	if chunkType == ChunkHeader && length != 6 {
		return Chunk{}, UnexpectedHeaderLengthError(length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return Chunk{}, err
	}
	return Chunk{Type: chunkType, Tag: tag, Length: length, Data: data}, nil
}
