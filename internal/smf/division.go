package smf

import (
	"errors"
	"fmt"
	"time"
)

var ErrZeroDivision = errors.New("smf: division tick rate cannot be zero")

// InvalidFrameFormatError reports a SMPTE division whose frame byte is not
// one of the four defined rates (-24, -25, -29, -30).
type InvalidFrameFormatError int8

func (e InvalidFrameFormatError) Error() string {
	return fmt.Sprintf("smf: division has invalid frame value: %d", int8(e))
}

// Division is the header field mapping ticks to time. It is either metrical
// (ticks per quarter note, scaled by tempo) or SMPTE timecode (an absolute
// tick interval, independent of tempo).
type Division struct {
	ticksPerBeat int           // nonzero for metrical divisions
	tickInterval time.Duration // nonzero for timecode divisions
}

// ParseDivision interprets the 16-bit division field of a header chunk.
// Bit 15 clear: the low 15 bits are ticks per beat. Bit 15 set: the upper
// byte is a negated SMPTE frame rate and the lower byte is ticks per frame.
func ParseDivision(value uint16) (Division, error) {
	if value&0x8000 == 0 {
		if value == 0 {
			return Division{}, ErrZeroDivision
		}
		return Division{ticksPerBeat: int(value)}, nil
	}

	frameFormat := int8(value >> 8)
	var fps float64
	switch frameFormat {
	case -24:
		fps = 24
	case -25:
		fps = 25
	case -29: // 29.97 fps drop-frame
		fps = 29.97
	case -30:
		fps = 30
	default:
		return Division{}, InvalidFrameFormatError(frameFormat)
	}
	frameDuration := time.Duration(float64(time.Second) / fps)
	ticksPerFrame := int(value & 0xFF)
	if ticksPerFrame == 0 {
		return Division{}, ErrZeroDivision
	}
	return Division{tickInterval: frameDuration / time.Duration(ticksPerFrame)}, nil
}

// Metrical returns the ticks-per-beat count for a metrical division.
func (d Division) Metrical() (ticksPerBeat int, ok bool) {
	return d.ticksPerBeat, d.ticksPerBeat != 0
}

// TimeCode returns the absolute tick interval for a SMPTE division.
func (d Division) TimeCode() (tickInterval time.Duration, ok bool) {
	return d.tickInterval, d.tickInterval != 0
}

// TickDuration converts the division into an absolute tick duration at the
// given tempo. Tempo has no effect on timecode divisions.
func (d Division) TickDuration(bpm float64) time.Duration {
	if d.tickInterval != 0 {
		return d.tickInterval
	}
	secs := 60.0 / (float64(d.ticksPerBeat) * bpm)
	return time.Duration(secs * float64(time.Second))
}

func (d Division) String() string {
	if d.tickInterval != 0 {
		return fmt.Sprintf("timecode, %v per tick", d.tickInterval)
	}
	return fmt.Sprintf("metrical, %d ticks per beat", d.ticksPerBeat)
}
