// Copyright 2025 Certen Protocol
//
// Decode reconstructs an Operation from its wire tag and the reader
// positioned just after that tag, enforcing the per-operation body
// rules of spec §4.5 (length caps, SUBSTR sentinel canonicalization).

package ops

import "github.com/certen/ots-engine/pkg/wire"

// Decode reads one operation's immediate bytes given its tag, which
// the caller (pkg/codec) has already consumed from the stream.
func Decode(tag byte, r *wire.Reader) (Operation, error) {
	switch tag {
	case TagSHA1:
		return SHA1Op{}, nil
	case TagRIPEMD160:
		return RIPEMD160Op{}, nil
	case TagSHA256:
		return SHA256Op{}, nil
	case TagKeccak256:
		return Keccak256Op{}, nil
	case TagReverse:
		return ReverseOp{}, nil
	case TagHexlify:
		return HexlifyOp{}, nil
	case TagUnhexlify:
		return UnhexlifyOp{}, nil
	case TagAppend:
		data, err := readVariableData(r)
		if err != nil {
			return nil, err
		}
		return AppendOp{Data: data}, nil
	case TagPrepend:
		data, err := readVariableData(r)
		if err != nil {
			return nil, err
		}
		return PrependOp{Data: data}, nil
	case TagXor:
		key, err := readVariableData(r)
		if err != nil {
			return nil, err
		}
		return XorOp{Key: key}, nil
	case TagAnd:
		mask, err := readVariableData(r)
		if err != nil {
			return nil, err
		}
		return AndOp{Mask: mask}, nil
	case TagOr:
		mask, err := readVariableData(r)
		if err != nil {
			return nil, err
		}
		return OrOp{Mask: mask}, nil
	case TagSubstr:
		start, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		if length == 0 {
			return nil, ErrZeroLengthSubstr
		}
		return SubstrOp{Start: start, Len: length}, nil
	case TagLeft:
		length, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		return LeftOp{Len: length}, nil
	case TagRight:
		length, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		return RightOp{Len: length}, nil
	default:
		return nil, ErrUnknownOpTag
	}
}

// readVariableData reads a varuint length then that many bytes, capped
// per spec §4.2/§4.5 at maxVariableDataBytes.
func readVariableData(r *wire.Reader) ([]byte, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	if n > maxVariableDataBytes {
		return nil, ErrBodyTooLong
	}
	return r.ReadBytes(int(n))
}
