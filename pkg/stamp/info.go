// Copyright 2025 Certen Protocol
//
// Info (spec §6's "info" command): decode a detached timestamp file
// and describe its shape without performing any network verification —
// a read-only inspection used by the CLI's `info` and `status`
// subcommands.

package stamp

import (
	"crypto/sha256"
	"fmt"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/merkle"
)

// Info is a structural summary of a decoded timestamp envelope.
type Info struct {
	Version        byte
	HasNonce       bool
	PendingURIs    []string
	AttestedChains []string // distinct chain kinds with a concrete attestation somewhere in the tree
}

// Describe parses envelope and reports its structure. It requires the
// original document to recompute the root message the evaluator walks
// from; pass nil if only the nonce/version header is of interest (the
// pending/attested summaries are omitted in that case).
func Describe(envelope []byte, document []byte) (*Info, error) {
	env, err := codec.DecodeEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("stamp: decode envelope: %w", err)
	}

	info := &Info{Version: env.Version, HasNonce: env.Version == codec.VersionNonce}
	if document == nil {
		return info, nil
	}

	tree, _, err := DecodeTree(envelope, document)
	if err != nil {
		return nil, err
	}

	for _, p := range merkle.FindPending(tree) {
		info.PendingURIs = append(info.PendingURIs, string(pendingURI(p)))
	}

	pairs, _ := merkle.Evaluate(tree) // evaluation errors don't prevent reporting what did evaluate
	seen := map[string]bool{}
	for _, pair := range pairs {
		kind := attestationKind(pair.Attestation)
		if kind != "" && !seen[kind] {
			seen[kind] = true
			info.AttestedChains = append(info.AttestedChains, kind)
		}
	}
	return info, nil
}

func recomputeCommitment(env *codec.Envelope, document []byte) []byte {
	digest := sha256.Sum256(document)
	if env.Version != codec.VersionNonce {
		return digest[:]
	}
	return append(append([]byte{}, env.Nonce...), digest[:]...)
}

func pendingURI(p merkle.Pair) []byte {
	if pending, ok := p.Attestation.(attestation.Pending); ok {
		return pending.URI
	}
	return nil
}

func attestationKind(a attestation.Attestation) string {
	switch a.(type) {
	case attestation.BitcoinBlockHeader:
		return "bitcoin"
	case attestation.LitecoinBlockHeader:
		return "litecoin"
	case attestation.Ethereum:
		return "ethereum"
	default:
		return ""
	}
}
