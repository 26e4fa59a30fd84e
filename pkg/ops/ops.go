// Copyright 2025 Certen Protocol
//
// Operation set: the closed family of pure message-rewriting functions
// that label the edges of a timestamp tree (spec §3, §4.2). Every
// Operation has a one-byte wire tag, optional immediate parameter
// bytes, and a total Apply function that never mutates its input.

package ops

import (
	"errors"

	"github.com/certen/ots-engine/pkg/wire"
)

// Wire tags (see pkg/codec for the structural bytes and pkg/attestation
// for attestation tags). Some values coincide with those spaces by
// design: 0x08 with Bitcoin's attestation tag, and 0xF0/0xF1 with the
// codec's terminator and unknown-skip bytes; pkg/codec's decode grammar
// tells them apart by position.
const (
	TagSHA1       byte = 0x02
	TagRIPEMD160  byte = 0x03
	TagSHA256     byte = 0x08
	TagKeccak256  byte = 0x67
	TagAppend     byte = 0xF0
	TagPrepend    byte = 0xF1
	TagReverse    byte = 0x0A
	TagHexlify    byte = 0x0B
	TagUnhexlify  byte = 0x0C
	TagSubstr     byte = 0x0D
	TagLeft       byte = 0x0E
	TagRight      byte = 0x0F
	TagXor        byte = 0x10
	TagAnd        byte = 0x11
	TagOr         byte = 0x12
)

// SubstrToEnd is the sentinel SUBSTR/length value meaning "to the end
// of the message" (spec §9 Open Question 3: canonicalized on
// math.MaxUint32 both on encode and decode).
const SubstrToEnd uint64 = 0xFFFFFFFF

// Per-operation body limits (spec §4.2, §4.5).
const (
	maxVariableDataBytes = 4096
)

// Sentinel errors for operation evaluation and decoding.
var (
	ErrMessageTooShort  = errors.New("ops: message too short for operation")
	ErrBadHex           = errors.New("ops: invalid hex input")
	ErrBodyTooLong      = errors.New("ops: operation body exceeds maximum length")
	ErrUnknownOpTag     = errors.New("ops: unknown operation tag")
	ErrZeroLengthSubstr = errors.New("ops: zero-length SUBSTR that is not the to-end sentinel")
)

// Operation is a pure message -> message transform with a wire identity.
type Operation interface {
	// Tag returns the one-byte wire tag identifying this operation kind.
	Tag() byte

	// Apply returns a new message derived from msg. It never mutates msg
	// and never panics on well-formed parameters; out-of-range requests
	// (SUBSTR/LEFT/RIGHT past the end of msg, bad hex) return an error.
	Apply(msg []byte) ([]byte, error)

	// Encode writes this operation's immediate parameter bytes (not
	// including the tag itself, which the codec writes separately).
	Encode(w *wire.Writer)

	// Equal reports whether two operations have byte-identical encodings,
	// the notion of equality the tree-merge algorithm uses to match
	// sibling operations (spec §4.4).
	Equal(other Operation) bool
}

// encodingEqual compares two operations by their tag and encoded body,
// the byte-equality the merge algorithm (spec §4.4) requires.
func encodingEqual(a, b Operation) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	wa := wire.NewWriter()
	a.Encode(wa)
	wb := wire.NewWriter()
	b.Encode(wb)
	ba, bb := wa.Bytes(), wb.Bytes()
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
