// Copyright 2025 Certen Protocol
//
// Detached/attached timestamp file envelopes (spec §3, §4.5). The
// envelope never stores the document's commitment itself — only the
// optional nonce and the serialized operation/attestation tree; the
// commitment is recomputed by the caller from nonce ‖ digest.

package codec

import (
	"bytes"
	"errors"

	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/wire"
)

// Magic is the 16-byte prefix of every detached/attached timestamp
// envelope: 0x00 "OpenTimestamps" 0x00.
var Magic = append([]byte{0x00}, append([]byte("OpenTimestamps"), 0x00)...)

const (
	// VersionLegacy has no nonce.
	VersionLegacy byte = 0x00
	// VersionNonce carries a privacy nonce ahead of the serialized tree.
	VersionNonce byte = 0x01
)

var (
	ErrBadMagic       = errors.New("codec: envelope magic mismatch")
	ErrUnknownVersion = errors.New("codec: unknown envelope version")
)

// Envelope is a parsed detached timestamp file, minus the original
// document bytes (see SplitAttached for the attached-file variant).
type Envelope struct {
	Version byte
	Nonce   []byte // nil for VersionLegacy
	Node    *timestamp.Node
}

// EncodeEnvelope serializes e per spec §3/§4.5's byte layout.
func EncodeEnvelope(e *Envelope) []byte {
	w := wire.NewWriter()
	w.WriteBytes(Magic)
	w.WriteU8(e.Version)
	if e.Version == VersionNonce {
		w.WriteU8(byte(len(e.Nonce)))
		w.WriteBytes(e.Nonce)
	}
	EncodeNode(e.Node, w)
	return w.Bytes()
}

// DecodeEnvelope parses a detached timestamp file's bytes.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	r := wire.NewReader(data)

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic) {
		return nil, ErrBadMagic
	}

	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	e := &Envelope{Version: version}
	switch version {
	case VersionLegacy:
		// no nonce section
	case VersionNonce:
		nonceLen, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		nonce, err := r.ReadBytes(int(nonceLen))
		if err != nil {
			return nil, err
		}
		e.Nonce = nonce
	default:
		return nil, ErrUnknownVersion
	}

	node, err := DecodeNode(r)
	if err != nil {
		return nil, err
	}
	e.Node = node
	return e, nil
}

// SplitAttached separates an attached timestamp file's leading
// document bytes from its trailing envelope, using the magic bytes as
// the split point (spec §3 "Attached timestamp file").
func SplitAttached(data []byte) (document []byte, envelope *Envelope, err error) {
	idx := bytes.Index(data, Magic)
	if idx < 0 {
		return nil, nil, ErrBadMagic
	}
	env, err := DecodeEnvelope(data[idx:])
	if err != nil {
		return nil, nil, err
	}
	return data[:idx], env, nil
}
