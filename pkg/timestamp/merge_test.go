// Copyright 2025 Certen Protocol

package timestamp

import (
	"testing"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/ops"
)

func buildSample(root []byte, att attestation.Attestation) *Tree {
	t := NewTree(root)
	child := NewNode()
	child.AddAttestation(att)
	t.Root.AddChild(ops.SHA256Op{}, child)
	return t
}

func TestMergeUnionsAttestationsAndOps(t *testing.T) {
	root := []byte("commitment")
	a := buildSample(root, attestation.Pending{URI: []byte("https://cal-a.example/x")})
	b := buildSample(root, attestation.Pending{URI: []byte("https://cal-b.example/y")})

	if err := Merge(a, b); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(a.Root.Ops) != 1 {
		t.Fatalf("expected single shared SHA256 child, got %d ops", len(a.Root.Ops))
	}
	child := a.Root.Ops[0].Child
	if len(child.Attestations) != 2 {
		t.Fatalf("expected 2 attestations after merge, got %d", len(child.Attestations))
	}
}

func TestMergeSelfIsNoOp(t *testing.T) {
	root := []byte("commitment")
	att := attestation.BitcoinBlockHeader{Height: 100}
	a := buildSample(root, att)
	b := buildSample(root, att)

	if err := Merge(a, b); err != nil {
		t.Fatalf("merge: %v", err)
	}
	child := a.Root.Ops[0].Child
	if len(child.Attestations) != 1 {
		t.Fatalf("merging identical subtree should be a no-op, got %d attestations", len(child.Attestations))
	}
}

func TestMergeEmptySameRootIsEquivalent(t *testing.T) {
	root := []byte("commitment")
	att := attestation.BitcoinBlockHeader{Height: 100}
	a := buildSample(root, att)
	empty := NewTree(root)

	if err := Merge(a, empty); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(a.Root.Ops) != 1 || len(a.Root.Ops[0].Child.Attestations) != 1 {
		t.Fatalf("merging empty same-root tree should not change a")
	}
}

func TestMergeRootMismatch(t *testing.T) {
	a := NewTree([]byte("one"))
	b := NewTree([]byte("two"))
	if err := Merge(a, b); err != ErrRootMismatch {
		t.Fatalf("expected ErrRootMismatch, got %v", err)
	}
}

func TestReplacePending(t *testing.T) {
	pending := attestation.Pending{URI: []byte("https://cal.example/ots/abc")}
	node := NewNode()
	node.AddAttestation(pending)

	replacement := NewNode()
	replacement.AddAttestation(attestation.BitcoinBlockHeader{Height: 100})

	ReplacePending(node, pending, replacement)

	if len(node.Attestations) != 1 {
		t.Fatalf("expected exactly the concrete attestation, got %d", len(node.Attestations))
	}
	if _, ok := node.Attestations[0].(attestation.BitcoinBlockHeader); !ok {
		t.Fatalf("expected BitcoinBlockHeader, got %T", node.Attestations[0])
	}
}
