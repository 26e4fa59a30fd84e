// Copyright 2025 Certen Protocol
//
// Codec (spec §4.5): serializes and deserializes a timestamp tree
// node. Grammar, in the source convention this format follows:
//
//	Timestamp := (Attestation | UnknownSkip)* (OpIntroducer OpBody Timestamp)* Terminator
//
// Structural bytes (spec §6): 0x00 introduces an operation edge, 0xF0
// terminates the node, 0xF1 wraps a commitment tag this decoder
// doesn't recognize so it can still be skipped (length-prefixed body,
// the forward-compatibility invariant). Two of them collide on purpose
// with other tag spaces (0xF0 with ops.TagAppend, 0xF1 with
// ops.TagPrepend, and separately ops.TagSHA256 collides with
// attestation.TagBitcoinBlockHeader); every collision is resolved
// positionally, never by unifying the tag spaces.
package codec

import (
	"errors"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/ops"
	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/wire"
)

const (
	tagOpIntroducer   byte = 0x00
	tagTerminator     byte = 0xF0
	tagUnknownSkip    byte = 0xF1
)

// ErrUnknownOpTag surfaces ops.Decode's unknown-tag failure with codec
// context; unlike unknown attestation tags, an unknown operation tag
// is not forward-compatibly skippable because the codec has no way to
// know how many immediate bytes it owns.
var ErrUnknownOpTag = errors.New("codec: unknown operation tag cannot be skipped")

// EncodeNode serializes node per the grammar above.
func EncodeNode(node *timestamp.Node, w *wire.Writer) {
	for _, a := range node.Attestations {
		w.WriteBytes(attestation.EncodeBytes(a))
	}
	for _, oc := range node.Ops {
		w.WriteU8(tagOpIntroducer)
		w.WriteVarUint(uint64(oc.Op.Tag()))
		oc.Op.Encode(w)
		EncodeNode(oc.Child, w)
	}
	w.WriteU8(tagTerminator)
}

// DecodeNode deserializes a node, consuming exactly the bytes that
// EncodeNode would have produced for it (round-trip invariant, spec
// §8 property 1).
func DecodeNode(r *wire.Reader) (*timestamp.Node, error) {
	node := timestamp.NewNode()
	for {
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagTerminator:
			return node, nil

		case tagOpIntroducer:
			opTagU64, err := r.ReadVarUint()
			if err != nil {
				return nil, err
			}
			if opTagU64 > 0xFF {
				return nil, ErrUnknownOpTag
			}
			op, err := ops.Decode(byte(opTagU64), r)
			if err != nil {
				if errors.Is(err, ops.ErrUnknownOpTag) {
					return nil, ErrUnknownOpTag
				}
				return nil, err
			}
			child, err := DecodeNode(r)
			if err != nil {
				return nil, err
			}
			node.AddChild(op, child)

		case tagUnknownSkip:
			if _, err := r.ReadVarUint(); err != nil { // the unrecognized real tag
				return nil, err
			}
			length, err := r.ReadVarUint()
			if err != nil {
				return nil, err
			}
			if _, err := r.ReadBytes(int(length)); err != nil {
				return nil, err
			}

		default:
			att, err := attestation.Decode(tag, r)
			if err != nil {
				if errors.Is(err, attestation.ErrUnknownTag) {
					// attestation.Decode already consumed the
					// length-prefixed body before reporting this.
					continue
				}
				return nil, err
			}
			node.AddAttestation(att)
		}
	}
}
