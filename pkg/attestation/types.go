// Copyright 2025 Certen Protocol

package attestation

import "github.com/certen/ots-engine/pkg/wire"

// BitcoinBlockHeader commits that the evaluated message appears in the
// Bitcoin main-chain block at Height.
type BitcoinBlockHeader struct {
	Height uint64
}

func (BitcoinBlockHeader) Tag() byte { return TagBitcoinBlockHeader }

func (a BitcoinBlockHeader) EncodeBody(w *wire.Writer) {
	w.WriteVarUint(a.Height)
}

func (a BitcoinBlockHeader) Equal(other Attestation) bool { return bodyEqual(a, other) }

func decodeBitcoin(r *wire.Reader) (Attestation, error) {
	height, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	return BitcoinBlockHeader{Height: height}, nil
}

// LitecoinBlockHeader commits that the evaluated message appears in
// the Litecoin main-chain block at Height.
type LitecoinBlockHeader struct {
	Height uint64
}

func (LitecoinBlockHeader) Tag() byte { return TagLitecoinBlockHeader }

func (a LitecoinBlockHeader) EncodeBody(w *wire.Writer) {
	w.WriteVarUint(a.Height)
}

func (a LitecoinBlockHeader) Equal(other Attestation) bool { return bodyEqual(a, other) }

func decodeLitecoin(r *wire.Reader) (Attestation, error) {
	height, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	return LitecoinBlockHeader{Height: height}, nil
}

// Ethereum commits that the evaluated message is embedded in
// TxHash's input data, mined in BlockNumber. TxHash is a fixed 32
// bytes with no length prefix (spec §9 Open Question 2).
type Ethereum struct {
	TxHash      [32]byte
	BlockNumber uint64
}

func (Ethereum) Tag() byte { return TagEthereum }

func (a Ethereum) EncodeBody(w *wire.Writer) {
	w.WriteBytes(a.TxHash[:])
	w.WriteVarUint(a.BlockNumber)
}

func (a Ethereum) Equal(other Attestation) bool { return bodyEqual(a, other) }

func decodeEthereum(r *wire.Reader) (Attestation, error) {
	txHashBytes, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	blockNumber, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	var a Ethereum
	copy(a.TxHash[:], txHashBytes)
	a.BlockNumber = blockNumber
	return a, nil
}

// Pending commits only that the calendar at URI has accepted the leaf
// and will later be able to produce the concrete attestations
// replacing this one; it is not trust-bearing on its own.
type Pending struct {
	URI []byte
}

func (Pending) Tag() byte { return TagPending }

func (a Pending) EncodeBody(w *wire.Writer) {
	w.WriteVarUint(uint64(len(a.URI)))
	w.WriteBytes(a.URI)
}

func (a Pending) Equal(other Attestation) bool { return bodyEqual(a, other) }

func decodePending(r *wire.Reader) (Attestation, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	uri, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return Pending{URI: uri}, nil
}
