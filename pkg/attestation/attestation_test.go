// Copyright 2025 Certen Protocol

package attestation

import (
	"testing"

	"github.com/certen/ots-engine/pkg/wire"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var ethHash [32]byte
	copy(ethHash[:], []byte("0123456789abcdef0123456789abcdef"))

	cases := []Attestation{
		BitcoinBlockHeader{Height: 800000},
		LitecoinBlockHeader{Height: 12345},
		Ethereum{TxHash: ethHash, BlockNumber: 42},
		Pending{URI: []byte("https://cal.example/ots/abc")},
	}
	for _, a := range cases {
		raw := EncodeBytes(a)
		r := wire.NewReader(raw)
		tag, err := r.ReadU8()
		if err != nil {
			t.Fatalf("read tag: %v", err)
		}
		decoded, err := Decode(tag, r)
		if err != nil {
			t.Fatalf("decode %T: %v", a, err)
		}
		if !a.Equal(decoded) {
			t.Errorf("round trip mismatch for %T", a)
		}
	}
}

func TestDecodeUnknownTagSkippable(t *testing.T) {
	w := wire.NewWriter()
	body := []byte{1, 2, 3, 4}
	w.WriteVarUint(uint64(len(body)))
	w.WriteBytes(body)
	r := wire.NewReader(w.Bytes())

	_, err := Decode(0x7E, r)
	if err != ErrUnknownTag {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if !r.EOF() {
		t.Errorf("expected body fully consumed so caller can skip cleanly")
	}
}

func TestBitcoinHeightDeduplication(t *testing.T) {
	a := BitcoinBlockHeader{Height: 100}
	b := BitcoinBlockHeader{Height: 100}
	c := BitcoinBlockHeader{Height: 101}
	if !a.Equal(b) {
		t.Errorf("expected equal")
	}
	if a.Equal(c) {
		t.Errorf("expected not equal")
	}
}
