// Copyright 2025 Certen Protocol
//
// Timestamp tree (spec §3, §4.4): a recursive structure where each
// node carries a set of attestations applying at its (implicit)
// message and an ordered list of (operation, child) pairs. A node
// never stores its own message; it is inferred by applying the
// parent's operation to the parent's message, starting from the
// tree's root message (the commitment).

package timestamp

import (
	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/ops"
)

// OpChild pairs an operation with the subtree reached by applying it.
type OpChild struct {
	Op    ops.Operation
	Child *Node
}

// Node is one point in the tree: a message (implicit, not stored) with
// zero or more attestations and zero or more (op, child) edges.
type Node struct {
	Attestations []attestation.Attestation
	Ops          []OpChild
}

// NewNode returns an empty node with no attestations or children.
func NewNode() *Node {
	return &Node{}
}

// Tree is a timestamp tree together with its root message (the leaf
// commitment spec §3 describes). The root is the only node whose
// message is known without evaluation.
type Tree struct {
	RootMessage []byte
	Root        *Node
}

// NewTree returns a fresh leaf tree: root message with no operations
// or attestations yet (the "fresh leaf" stamp-lifecycle state).
func NewTree(rootMessage []byte) *Tree {
	msg := make([]byte, len(rootMessage))
	copy(msg, rootMessage)
	return &Tree{RootMessage: msg, Root: NewNode()}
}

// AddAttestation appends a to n's attestation set,
// deduping by encoded-byte equality (spec §4.4 step 3).
func (n *Node) AddAttestation(a attestation.Attestation) {
	for _, existing := range n.Attestations {
		if existing.Equal(a) {
			return
		}
	}
	n.Attestations = append(n.Attestations, a)
}

// RemoveAttestation deletes the first attestation byte-equal to a, if
// present. Used to replace a Pending attestation once it upgrades
// (spec §4.4 "Replacing a pending attestation").
func (n *Node) RemoveAttestation(a attestation.Attestation) {
	for i, existing := range n.Attestations {
		if existing.Equal(a) {
			n.Attestations = append(n.Attestations[:i], n.Attestations[i+1:]...)
			return
		}
	}
}

// FindChild returns the existing (op, child) pair whose operation is
// byte-equal to op, or nil if none matches.
func (n *Node) FindChild(op ops.Operation) *Node {
	for i := range n.Ops {
		if n.Ops[i].Op.Equal(op) {
			return n.Ops[i].Child
		}
	}
	return nil
}

// AddChild appends a fresh (op, child) pair, preserving insertion
// order (spec §4.4 step 3, §5 ordering guarantees).
func (n *Node) AddChild(op ops.Operation, child *Node) {
	n.Ops = append(n.Ops, OpChild{Op: op, Child: child})
}

// StillPending reports whether n's attestation set contains a Pending
// variant, the signal a calendar upgrade response uses to say it has
// nothing more concrete yet (spec §4.6).
func (n *Node) StillPending() bool {
	for _, a := range n.Attestations {
		if _, ok := a.(attestation.Pending); ok {
			return true
		}
	}
	return false
}
