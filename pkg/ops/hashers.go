// Copyright 2025 Certen Protocol
//
// The four hash operations. Each is parameterless on the wire and
// total: a hasher never fails regardless of input length, matching
// spec §8 property 4 (digest lengths are fixed: 20, 20, 32, 32 bytes).

package ops

import (
	"crypto/sha1"
	"crypto/sha256"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"

	"github.com/certen/ots-engine/pkg/wire"
)

// SHA1Op computes the 20-byte SHA-1 digest.
type SHA1Op struct{}

func (SHA1Op) Tag() byte { return TagSHA1 }

func (SHA1Op) Apply(msg []byte) ([]byte, error) {
	h := sha1.Sum(msg)
	return h[:], nil
}

func (SHA1Op) Encode(*wire.Writer) {}

func (o SHA1Op) Equal(other Operation) bool { return encodingEqual(o, other) }

// RIPEMD160Op computes the 20-byte RIPEMD-160 digest.
type RIPEMD160Op struct{}

func (RIPEMD160Op) Tag() byte { return TagRIPEMD160 }

func (RIPEMD160Op) Apply(msg []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(msg)
	return h.Sum(nil), nil
}

func (RIPEMD160Op) Encode(*wire.Writer) {}

func (o RIPEMD160Op) Equal(other Operation) bool { return encodingEqual(o, other) }

// SHA256Op computes the 32-byte SHA-256 digest.
type SHA256Op struct{}

func (SHA256Op) Tag() byte { return TagSHA256 }

func (SHA256Op) Apply(msg []byte) ([]byte, error) {
	h := sha256.Sum256(msg)
	return h[:], nil
}

func (SHA256Op) Encode(*wire.Writer) {}

func (o SHA256Op) Equal(other Operation) bool { return encodingEqual(o, other) }

// Keccak256Op computes the 32-byte Keccak-256 digest used by Ethereum
// commitments; delegates to go-ethereum's crypto package rather than
// hand-rolling sha3, the same call the teacher uses for all EVM hashing.
type Keccak256Op struct{}

func (Keccak256Op) Tag() byte { return TagKeccak256 }

func (Keccak256Op) Apply(msg []byte) ([]byte, error) {
	h := ethcrypto.Keccak256(msg)
	return h, nil
}

func (Keccak256Op) Encode(*wire.Writer) {}

func (o Keccak256Op) Equal(other Operation) bool { return encodingEqual(o, other) }
