// Copyright 2025 Certen Protocol

package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestVarUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 16384, math.MaxUint32, math.MaxUint64}
	for _, n := range cases {
		w := NewWriter()
		w.WriteVarUint(n)
		r := NewReader(w.Bytes())
		got, err := r.ReadVarUint()
		if err != nil {
			t.Fatalf("ReadVarUint(%d): %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d: got %d", n, got)
		}
		if !r.EOF() {
			t.Errorf("round trip %d: reader not at EOF", n)
		}
	}
}

func TestReadVarUintTooLong(t *testing.T) {
	buf := bytes.Repeat([]byte{0x80}, 10)
	r := NewReader(buf)
	if _, err := r.ReadVarUint(); err != ErrVarUintTooLong {
		t.Fatalf("expected ErrVarUintTooLong, got %v", err)
	}
}

func TestReadBytesUnexpectedEOF(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadBytes(3); err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestWriterReaderBytes(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteBytes([]byte{1, 2, 3})
	r := NewReader(w.Bytes())
	b, err := r.ReadU8()
	if err != nil || b != 0xAB {
		t.Fatalf("ReadU8: %x %v", b, err)
	}
	rest, err := r.ReadBytes(3)
	if err != nil || !bytes.Equal(rest, []byte{1, 2, 3}) {
		t.Fatalf("ReadBytes: %v %v", rest, err)
	}
}
