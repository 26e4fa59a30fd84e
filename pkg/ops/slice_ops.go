// Copyright 2025 Certen Protocol

package ops

import "github.com/certen/ots-engine/pkg/wire"

// SubstrOp extracts msg[Start : Start+Len]. Len == SubstrToEnd means
// "through the end of the message" (spec §9 Open Question 3).
type SubstrOp struct {
	Start uint64
	Len   uint64
}

func (SubstrOp) Tag() byte { return TagSubstr }

func (o SubstrOp) Apply(msg []byte) ([]byte, error) {
	if o.Start > uint64(len(msg)) {
		return nil, ErrMessageTooShort
	}
	end := len(msg)
	if o.Len != SubstrToEnd {
		e := o.Start + o.Len
		if e > uint64(len(msg)) {
			return nil, ErrMessageTooShort
		}
		end = int(e)
	}
	out := make([]byte, end-int(o.Start))
	copy(out, msg[o.Start:end])
	return out, nil
}

func (o SubstrOp) Encode(w *wire.Writer) {
	w.WriteVarUint(o.Start)
	w.WriteVarUint(o.Len)
}

func (o SubstrOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// LeftOp extracts msg[:Len].
type LeftOp struct {
	Len uint64
}

func (LeftOp) Tag() byte { return TagLeft }

func (o LeftOp) Apply(msg []byte) ([]byte, error) {
	if o.Len > uint64(len(msg)) {
		return nil, ErrMessageTooShort
	}
	out := make([]byte, o.Len)
	copy(out, msg[:o.Len])
	return out, nil
}

func (o LeftOp) Encode(w *wire.Writer) {
	w.WriteVarUint(o.Len)
}

func (o LeftOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// RightOp extracts msg[len(msg)-Len:].
type RightOp struct {
	Len uint64
}

func (RightOp) Tag() byte { return TagRight }

func (o RightOp) Apply(msg []byte) ([]byte, error) {
	if o.Len > uint64(len(msg)) {
		return nil, ErrMessageTooShort
	}
	start := uint64(len(msg)) - o.Len
	out := make([]byte, o.Len)
	copy(out, msg[start:])
	return out, nil
}

func (o RightOp) Encode(w *wire.Writer) {
	w.WriteVarUint(o.Len)
}

func (o RightOp) Equal(other Operation) bool { return encodingEqual(o, other) }
