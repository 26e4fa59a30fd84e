// Copyright 2025 Certen Protocol

package ops

import "github.com/certen/ots-engine/pkg/wire"

// XorOp XORs every message byte with Key, cycling Key as needed.
// Applying the same key twice is a no-op (spec §8 property 7).
type XorOp struct {
	Key []byte
}

func (XorOp) Tag() byte { return TagXor }

func (o XorOp) Apply(msg []byte) ([]byte, error) {
	return cyclicApply(msg, o.Key, func(a, b byte) byte { return a ^ b }), nil
}

func (o XorOp) Encode(w *wire.Writer) {
	w.WriteVarUint(uint64(len(o.Key)))
	w.WriteBytes(o.Key)
}

func (o XorOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// AndOp ANDs every message byte with Mask, cycling Mask as needed.
type AndOp struct {
	Mask []byte
}

func (AndOp) Tag() byte { return TagAnd }

func (o AndOp) Apply(msg []byte) ([]byte, error) {
	return cyclicApply(msg, o.Mask, func(a, b byte) byte { return a & b }), nil
}

func (o AndOp) Encode(w *wire.Writer) {
	w.WriteVarUint(uint64(len(o.Mask)))
	w.WriteBytes(o.Mask)
}

func (o AndOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// OrOp ORs every message byte with Mask, cycling Mask as needed.
type OrOp struct {
	Mask []byte
}

func (OrOp) Tag() byte { return TagOr }

func (o OrOp) Apply(msg []byte) ([]byte, error) {
	return cyclicApply(msg, o.Mask, func(a, b byte) byte { return a | b }), nil
}

func (o OrOp) Encode(w *wire.Writer) {
	w.WriteVarUint(uint64(len(o.Mask)))
	w.WriteBytes(o.Mask)
}

func (o OrOp) Equal(other Operation) bool { return encodingEqual(o, other) }

// cyclicApply applies fn byte-wise between msg and key, cycling key
// when it is shorter than msg. An empty key leaves msg unchanged.
func cyclicApply(msg, key []byte, fn func(a, b byte) byte) []byte {
	out := make([]byte, len(msg))
	if len(key) == 0 {
		copy(out, msg)
		return out
	}
	for i, b := range msg {
		out[i] = fn(b, key[i%len(key)])
	}
	return out
}
