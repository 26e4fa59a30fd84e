// Copyright 2025 Certen Protocol

package ops

import (
	"encoding/hex"

	"github.com/certen/ots-engine/pkg/wire"
)

// AppendOp concatenates fixed Data after the message: msg ‖ data.
type AppendOp struct {
	Data []byte
}

func (AppendOp) Tag() byte { return TagAppend }

func (o AppendOp) Apply(msg []byte) ([]byte, error) {
	out := make([]byte, 0, len(msg)+len(o.Data))
	out = append(out, msg...)
	out = append(out, o.Data...)
	return out, nil
}

func (o AppendOp) Encode(w *wire.Writer) {
	w.WriteVarUint(uint64(len(o.Data)))
	w.WriteBytes(o.Data)
}

func (o AppendOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// PrependOp concatenates fixed Data before the message: data ‖ msg.
type PrependOp struct {
	Data []byte
}

func (PrependOp) Tag() byte { return TagPrepend }

func (o PrependOp) Apply(msg []byte) ([]byte, error) {
	out := make([]byte, 0, len(msg)+len(o.Data))
	out = append(out, o.Data...)
	out = append(out, msg...)
	return out, nil
}

func (o PrependOp) Encode(w *wire.Writer) {
	w.WriteVarUint(uint64(len(o.Data)))
	w.WriteBytes(o.Data)
}

func (o PrependOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// ReverseOp reverses the byte order of the message; it is its own inverse.
type ReverseOp struct{}

func (ReverseOp) Tag() byte { return TagReverse }

func (ReverseOp) Apply(msg []byte) ([]byte, error) {
	out := make([]byte, len(msg))
	for i, b := range msg {
		out[len(msg)-1-i] = b
	}
	return out, nil
}

func (ReverseOp) Encode(*wire.Writer) {}

func (o ReverseOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// HexlifyOp renders the message as lowercase hex bytes.
type HexlifyOp struct{}

func (HexlifyOp) Tag() byte { return TagHexlify }

func (HexlifyOp) Apply(msg []byte) ([]byte, error) {
	return []byte(hex.EncodeToString(msg)), nil
}

func (HexlifyOp) Encode(*wire.Writer) {}

func (o HexlifyOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// UnhexlifyOp parses the message as hex text back into binary.
type UnhexlifyOp struct{}

func (UnhexlifyOp) Tag() byte { return TagUnhexlify }

func (UnhexlifyOp) Apply(msg []byte) ([]byte, error) {
	out, err := hex.DecodeString(string(msg))
	if err != nil {
		return nil, ErrBadHex
	}
	return out, nil
}

func (UnhexlifyOp) Encode(*wire.Writer) {}

func (o UnhexlifyOp) Equal(other Operation) bool { return encodingEqual(o, other) }
