package smf

import (
	"errors"
	"io"
)

// MaxVLQ is the largest delta-time value the SMF spec allows.
const MaxVLQ = 0x0FFFFFFF

// ErrVLQTooLarge is returned by ReadVLQ when the accumulated value exceeds MaxVLQ.
var ErrVLQTooLarge = errors.New("smf: variable-length quantity exceeds 0x0FFFFFFF")

// ReadVLQ decodes a variable-length quantity: big-endian 7-bit groups, the
// high bit of each byte flagging continuation. Values beyond MaxVLQ fail with
// ErrVLQTooLarge; a stream that ends mid-quantity fails with the read error.
func ReadVLQ(r io.ByteReader) (uint32, error) {
	var value uint32
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		// Bound-check before shifting: the shift itself can wrap past 32 bits
		// and land back under the cap.
		if value > MaxVLQ>>7 {
			return 0, ErrVLQTooLarge
		}
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
}

// ReadVLQUnbounded is ReadVLQ without the 28-bit cap, for contexts where the
// format permits arbitrary-width values.
func ReadVLQUnbounded(r io.ByteReader) (uint64, error) {
	var value uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value = value<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
}
