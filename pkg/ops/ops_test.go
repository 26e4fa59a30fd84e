// Copyright 2025 Certen Protocol

package ops

import (
	"bytes"
	"testing"

	"github.com/certen/ots-engine/pkg/wire"
)

func TestHashDigestLengths(t *testing.T) {
	msg := []byte("hello world")
	cases := []struct {
		name string
		op   Operation
		want int
	}{
		{"sha1", SHA1Op{}, 20},
		{"ripemd160", RIPEMD160Op{}, 20},
		{"sha256", SHA256Op{}, 32},
		{"keccak256", Keccak256Op{}, 32},
	}
	for _, c := range cases {
		got, err := c.op.Apply(msg)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if len(got) != c.want {
			t.Errorf("%s: got %d bytes, want %d", c.name, len(got), c.want)
		}
	}
}

func TestAppendPrepend(t *testing.T) {
	msg := []byte("msg")
	data := []byte("data")
	got, _ := AppendOp{Data: data}.Apply(msg)
	if !bytes.Equal(got, []byte("msgdata")) {
		t.Errorf("append: got %q", got)
	}
	got, _ = PrependOp{Data: data}.Apply(msg)
	if !bytes.Equal(got, []byte("datamsg")) {
		t.Errorf("prepend: got %q", got)
	}
}

func TestReverseInvolution(t *testing.T) {
	msg := []byte("abcdef")
	once, _ := ReverseOp{}.Apply(msg)
	twice, _ := ReverseOp{}.Apply(once)
	if !bytes.Equal(twice, msg) {
		t.Errorf("reverse twice: got %q, want %q", twice, msg)
	}
}

func TestXorInvolution(t *testing.T) {
	msg := []byte("abcdef")
	key := []byte{0x42, 0x13}
	op := XorOp{Key: key}
	once, _ := op.Apply(msg)
	twice, _ := op.Apply(once)
	if !bytes.Equal(twice, msg) {
		t.Errorf("xor twice: got %q, want %q", twice, msg)
	}
}

func TestSubstr(t *testing.T) {
	msg := []byte("0123456789")
	got, err := SubstrOp{Start: 2, Len: 3}.Apply(msg)
	if err != nil || string(got) != "234" {
		t.Fatalf("substr: got %q, err %v", got, err)
	}

	got, err = SubstrOp{Start: 5, Len: SubstrToEnd}.Apply(msg)
	if err != nil || string(got) != "56789" {
		t.Fatalf("substr to-end: got %q, err %v", got, err)
	}

	if _, err := (SubstrOp{Start: 8, Len: 5}).Apply(msg); err != ErrMessageTooShort {
		t.Fatalf("expected ErrMessageTooShort, got %v", err)
	}
}

func TestLeftRight(t *testing.T) {
	msg := []byte("0123456789")
	got, err := LeftOp{Len: 3}.Apply(msg)
	if err != nil || string(got) != "012" {
		t.Fatalf("left: got %q, err %v", got, err)
	}
	got, err = RightOp{Len: 3}.Apply(msg)
	if err != nil || string(got) != "789" {
		t.Fatalf("right: got %q, err %v", got, err)
	}
	if _, err := (LeftOp{Len: 99}).Apply(msg); err != ErrMessageTooShort {
		t.Fatalf("expected ErrMessageTooShort, got %v", err)
	}
}

func TestHexlifyUnhexlifyRoundTrip(t *testing.T) {
	msg := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	hexed, _ := HexlifyOp{}.Apply(msg)
	if string(hexed) != "deadbeef" {
		t.Fatalf("hexlify: got %q", hexed)
	}
	back, err := UnhexlifyOp{}.Apply(hexed)
	if err != nil || !bytes.Equal(back, msg) {
		t.Fatalf("unhexlify: got %x, err %v", back, err)
	}
	if _, err := (UnhexlifyOp{}).Apply([]byte("xyz")); err != ErrBadHex {
		t.Fatalf("expected ErrBadHex, got %v", err)
	}
	if _, err := (UnhexlifyOp{}).Apply([]byte("abc")); err != ErrBadHex {
		t.Fatalf("odd length: expected ErrBadHex, got %v", err)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	ops := []Operation{
		SHA256Op{},
		AppendOp{Data: []byte("tail")},
		PrependOp{Data: []byte("head")},
		SubstrOp{Start: 1, Len: SubstrToEnd},
		LeftOp{Len: 4},
		RightOp{Len: 4},
		XorOp{Key: []byte{1, 2, 3}},
	}
	for _, op := range ops {
		w := wire.NewWriter()
		EncodeTagged(op, w)
		r := wire.NewReader(w.Bytes())
		tag, err := r.ReadU8()
		if err != nil {
			t.Fatalf("read tag: %v", err)
		}
		decoded, err := Decode(tag, r)
		if err != nil {
			t.Fatalf("decode %T: %v", op, err)
		}
		if !op.Equal(decoded) {
			t.Errorf("round trip mismatch for %T", op)
		}
	}
}

func TestDecodeZeroLengthSubstrRejected(t *testing.T) {
	w := wire.NewWriter()
	w.WriteVarUint(0) // start
	w.WriteVarUint(0) // len
	r := wire.NewReader(w.Bytes())
	if _, err := Decode(TagSubstr, r); err != ErrZeroLengthSubstr {
		t.Fatalf("expected ErrZeroLengthSubstr, got %v", err)
	}
}

func TestDecodeBodyTooLong(t *testing.T) {
	w := wire.NewWriter()
	w.WriteVarUint(maxVariableDataBytes + 1)
	r := wire.NewReader(w.Bytes())
	if _, err := Decode(TagAppend, r); err != ErrBodyTooLong {
		t.Fatalf("expected ErrBodyTooLong, got %v", err)
	}
}
