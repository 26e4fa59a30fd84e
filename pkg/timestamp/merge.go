// Copyright 2025 Certen Protocol
//
// Tree merge (spec §4.4): combine two trees sharing the same root
// message. Used both to fold a calendar's response into the local
// tree and to fold an upgrade response back into its pending leaf.

package timestamp

import (
	"errors"

	"github.com/certen/ots-engine/pkg/attestation"
)

// ErrRootMismatch is returned by Merge when the two trees being merged
// were not built against the same root message; the merge contract
// (spec §4.4) only applies to same-root trees.
var ErrRootMismatch = errors.New("timestamp: cannot merge trees with different root messages")

// Merge folds b into a in place. a and b must share the same root
// message: their RootMessage fields are compared byte by byte, and
// ErrRootMismatch is returned without touching a if they differ.
func Merge(a, b *Tree) error {
	if len(a.RootMessage) != len(b.RootMessage) {
		return ErrRootMismatch
	}
	for i := range a.RootMessage {
		if a.RootMessage[i] != b.RootMessage[i] {
			return ErrRootMismatch
		}
	}
	mergeNode(a.Root, b.Root)
	return nil
}

// mergeNode implements spec §4.4 steps 1-3:
//  1. union the attestation sets, deduped by encoded form;
//  2. for each (op, child) in b, recurse into the matching sibling in
//     a if one exists (same operation, byte-equal encoding), else
//     append a fresh copy;
//  3. ops preserve insertion order.
func mergeNode(a, b *Node) {
	for _, att := range b.Attestations {
		a.AddAttestation(att)
	}
	for _, bc := range b.Ops {
		if existing := a.FindChild(bc.Op); existing != nil {
			mergeNode(existing, bc.Child)
		} else {
			a.AddChild(bc.Op, copyNode(bc.Child))
		}
	}
}

// ReplacePending implements spec §4.4 "Replacing a pending
// attestation": the caller has located node (via the Merkle evaluator,
// spec §4.7). replacement is taken to be rooted at node's evaluated
// message; a decoded node carries no message of its own, so that is
// not checked here. It removes pending from node and merges
// replacement's root node into node in place.
func ReplacePending(node *Node, pending attestation.Attestation, replacement *Node) {
	node.RemoveAttestation(pending)
	mergeNode(node, replacement)
}

// copyNode deep-copies a subtree so the merged tree never aliases
// nodes owned by the tree being merged in (spec §4.3/§4.4: no aliasing
// of subtrees between independently-owned trees).
func copyNode(n *Node) *Node {
	out := &Node{
		Attestations: append([]attestation.Attestation(nil), n.Attestations...),
	}
	for _, c := range n.Ops {
		out.Ops = append(out.Ops, OpChild{Op: c.Op, Child: copyNode(c.Child)})
	}
	return out
}
