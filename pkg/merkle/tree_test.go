// Copyright 2025 Certen Protocol
//
// Merkle evaluator tests

package merkle

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/ops"
	"github.com/certen/ots-engine/pkg/timestamp"
)

func TestEvaluateEmptyLeaf(t *testing.T) {
	tree := timestamp.NewTree([]byte("commitment"))
	pairs, err := Evaluate(tree)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %d", len(pairs))
	}
}

// S2: SHA256 leaf with Bitcoin attestation.
func TestEvaluateSHA256ThenBitcoin(t *testing.T) {
	leaf := sha256.Sum256([]byte("hello"))
	tree := timestamp.NewTree(leaf[:])
	child := timestamp.NewNode()
	bh := attestation.BitcoinBlockHeader{Height: 800000}
	child.AddAttestation(bh)
	tree.Root.AddChild(ops.SHA256Op{}, child)

	pairs, err := Evaluate(tree)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	want := sha256.Sum256(leaf[:])
	if !bytes.Equal(pairs[0].Message, want[:]) {
		t.Fatalf("evaluated message mismatch")
	}
	if !pairs[0].Attestation.Equal(bh) {
		t.Fatalf("attestation mismatch: %+v", pairs[0].Attestation)
	}
}

func TestEvaluateStopsOnOperationError(t *testing.T) {
	tree := timestamp.NewTree([]byte("short"))
	// Root attestation is collected before the failing branch.
	rootAtt := attestation.BitcoinBlockHeader{Height: 1}
	tree.Root.AddAttestation(rootAtt)
	child := timestamp.NewNode()
	child.AddAttestation(attestation.LitecoinBlockHeader{Height: 2})
	tree.Root.AddChild(ops.LeftOp{Len: 999}, child)

	pairs, err := Evaluate(tree)
	if err != ops.ErrMessageTooShort {
		t.Fatalf("expected ErrMessageTooShort, got %v", err)
	}
	if len(pairs) != 1 || !pairs[0].Attestation.Equal(rootAtt) {
		t.Fatalf("expected the root attestation to have been collected before the failure, got %+v", pairs)
	}
}

func TestFindPending(t *testing.T) {
	tree := timestamp.NewTree([]byte("commitment"))
	p1 := attestation.Pending{URI: []byte("https://a.example/x")}
	tree.Root.AddAttestation(p1)

	child := timestamp.NewNode()
	p2 := attestation.Pending{URI: []byte("https://b.example/y")}
	child.AddAttestation(p2)
	tree.Root.AddChild(ops.SHA256Op{}, child)

	pending := FindPending(tree)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending attestations, got %d", len(pending))
	}
}
