package smf

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// Encodings from the SMF spec's example table.
var vlqTable = []struct {
	in   []byte
	want uint32
}{
	{[]byte{0x00}, 0},
	{[]byte{0x40}, 0x40},
	{[]byte{0x7F}, 0x7F},
	{[]byte{0x81, 0x00}, 0x80},
	{[]byte{0xC0, 0x00}, 0x2000},
	{[]byte{0xFF, 0x7F}, 0x3FFF},
	{[]byte{0x81, 0x80, 0x00}, 0x4000},
	{[]byte{0xC0, 0x80, 0x00}, 0x100000},
	{[]byte{0xFF, 0xFF, 0x7F}, 0x1FFFFF},
	{[]byte{0x81, 0x80, 0x80, 0x00}, 0x200000},
	{[]byte{0xC0, 0x80, 0x80, 0x00}, 0x8000000},
	{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0xFFFFFFF},
}

func TestReadVLQ(t *testing.T) {
	for _, tc := range vlqTable {
		got, err := ReadVLQ(bytes.NewReader(tc.in))
		if err != nil {
			t.Fatalf("ReadVLQ(% x): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ReadVLQ(% x) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestReadVLQTooLarge(t *testing.T) {
	cases := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF, 0x7F},
		// Encodes 1<<34: the accumulator wraps past 32 bits and would land
		// back at zero if the bound were checked after the shift.
		{0xC0, 0x80, 0x80, 0x80, 0x00},
		// Encodes 1<<35, wrapping back under the cap.
		{0x81, 0x80, 0x80, 0x80, 0x80, 0x00},
	}
	for _, in := range cases {
		got, err := ReadVLQ(bytes.NewReader(in))
		if !errors.Is(err, ErrVLQTooLarge) {
			t.Fatalf("ReadVLQ(% x) = %#x, %v; want ErrVLQTooLarge", in, got, err)
		}
	}
}

func TestReadVLQUnterminated(t *testing.T) {
	_, err := ReadVLQ(bytes.NewReader([]byte{0x81, 0x80}))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReadVLQUnbounded(t *testing.T) {
	for _, tc := range vlqTable {
		got, err := ReadVLQUnbounded(bytes.NewReader(tc.in))
		if err != nil {
			t.Fatalf("ReadVLQUnbounded(% x): %v", tc.in, err)
		}
		if got != uint64(tc.want) {
			t.Fatalf("ReadVLQUnbounded(% x) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
	// Wider than the bounded cap allows.
	got, err := ReadVLQUnbounded(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}))
	if err != nil {
		t.Fatalf("ReadVLQUnbounded: %v", err)
	}
	if got != 0x7FFFFFFFF {
		t.Fatalf("ReadVLQUnbounded = %#x, want 0x7FFFFFFFF", got)
	}
}
