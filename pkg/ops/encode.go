// Copyright 2025 Certen Protocol

package ops

import "github.com/certen/ots-engine/pkg/wire"

// EncodeTagged writes an operation's tag as a single byte followed by
// its immediate bytes. pkg/codec writes the tag as a varuint instead,
// which matches this form only for tags below 0x80 (not for APPEND or
// PREPEND).
func EncodeTagged(op Operation, w *wire.Writer) {
	w.WriteU8(op.Tag())
	op.Encode(w)
}
