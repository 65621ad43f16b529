package smf

import (
	"bytes"
	"fmt"
)

// InvalidChunkTypeError reports a chunk handed to the track decoder that is
// not a track chunk.
type InvalidChunkTypeError ChunkType

func (e InvalidChunkTypeError) Error() string {
	return fmt.Sprintf("smf: chunk is not a track chunk, but a %s chunk", ChunkType(e))
}

// TrackEvent pairs an event with its delta-time: the tick count since the
// previous event on the same track (the first event counts from tick 0).
type TrackEvent struct {
	Delta uint32
	Event Event
}

// Track is an ordered event sequence. Order is load-bearing: positions on the
// timeline are defined by file order plus delta-times, so events are never
// reordered after decode.
type Track struct {
	Events []TrackEvent
}

func (t Track) String() string {
	return fmt.Sprintf("track, %d events", len(t.Events))
}

// ParseTrack decodes (delta-time, event) pairs from a track chunk's payload
// until the payload is exhausted.
func ParseTrack(chunk Chunk) (Track, error) {
	if chunk.Type != ChunkTrack {
		return Track{}, InvalidChunkTypeError(chunk.Type)
	}

	r := bytes.NewReader(chunk.Data)
	var events []TrackEvent
	for r.Len() > 0 {
		delta, err := ReadVLQ(r)
		if err != nil {
			return Track{}, fmt.Errorf("smf: track event %d delta-time: %w", len(events), err)
		}
		event, err := ReadEvent(r)
		if err != nil {
			return Track{}, fmt.Errorf("smf: track event %d: %w", len(events), err)
		}
		events = append(events, TrackEvent{Delta: delta, Event: event})
	}
	return Track{Events: events}, nil
}
