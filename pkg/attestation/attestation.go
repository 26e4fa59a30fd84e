// Copyright 2025 Certen Protocol
//
// Attestation set (spec §3, §4.3): the sum type of trust anchors a
// timestamp tree can terminate in. Every variant carries a
// distinguishing wire tag and a varuint length-prefixed body so a
// decoder that doesn't know a future variant can still skip it.

package attestation

import (
	"errors"

	"github.com/certen/ots-engine/pkg/wire"
)

// Wire tags (spec §6, authoritative tag map). Tag 0x08 is shared with
// ops.TagSHA256; disambiguation is positional in pkg/codec, never by
// unifying the tag spaces here.
const (
	TagBitcoinBlockHeader  byte = 0x08
	TagPending             byte = 0x09
	TagLitecoinBlockHeader byte = 0x30
	TagEthereum            byte = 0x20
)

// ErrUnknownTag is returned by Decode for a tag this package doesn't
// recognize. Decode has already consumed the unknown variant's body by
// then, so a caller can skip past it and keep decoding.
var ErrUnknownTag = errors.New("attestation: unknown tag")

// Attestation is a trust anchor reachable at some node of a timestamp
// tree (spec §3).
type Attestation interface {
	// Tag identifies the attestation variant on the wire.
	Tag() byte

	// EncodeBody writes this attestation's body (the bytes following
	// the varuint length prefix pkg/codec writes around it).
	EncodeBody(w *wire.Writer)

	// Equal reports whether two attestations have byte-identical
	// encodings, the notion of equality tree merge (spec §4.4) and
	// attestation-set deduplication use.
	Equal(other Attestation) bool
}

// encodedBody returns an attestation's body bytes for equality checks
// and for use as part of a verdict cache key (spec §4.8 point 3).
func encodedBody(a Attestation) []byte {
	w := wire.NewWriter()
	a.EncodeBody(w)
	return w.Bytes()
}

func bodyEqual(a, b Attestation) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	ba, bb := encodedBody(a), encodedBody(b)
	if len(ba) != len(bb) {
		return false
	}
	for i := range ba {
		if ba[i] != bb[i] {
			return false
		}
	}
	return true
}

// EncodeBytes returns an attestation's fully self-describing wire
// form: tag, varuint body length, body.
func EncodeBytes(a Attestation) []byte {
	body := wire.NewWriter()
	a.EncodeBody(body)
	bodyBytes := body.Bytes()

	out := wire.NewWriter()
	out.WriteU8(a.Tag())
	out.WriteVarUint(uint64(len(bodyBytes)))
	out.WriteBytes(bodyBytes)
	return out.Bytes()
}

// Decode reads one attestation given its already-consumed tag and a
// reader positioned at the varuint body-length prefix. Unknown tags
// return (nil, ErrUnknownTag) after the length-prefixed body has been
// read, leaving r positioned just past it so callers can skip it (the
// codec's forward-compatibility invariant).
func Decode(tag byte, r *wire.Reader) (Attestation, error) {
	length, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	br := wire.NewReader(body)

	switch tag {
	case TagBitcoinBlockHeader:
		return decodeBitcoin(br)
	case TagLitecoinBlockHeader:
		return decodeLitecoin(br)
	case TagEthereum:
		return decodeEthereum(br)
	case TagPending:
		return decodePending(br)
	default:
		return nil, ErrUnknownTag
	}
}
