// Copyright 2025 Certen Protocol
//
// Merkle-path evaluator (spec §4.7): walks a timestamp tree from its
// root message, rewriting the running message under each operation
// and collecting (evaluated message, attestation) pairs at every
// attestation it passes. Pure and deterministic: the output sequence
// is fully determined by (tree, root message) and the encounter order
// of attestations then ops at each node (spec §5 ordering guarantees).
//
// This package keeps the name and the "walk down accumulating a
// transform" shape of the teacher's original binary Merkle-proof
// walker, generalized from a fixed hash-pair combine step to the full
// ops.Operation.Apply.

package merkle

import (
	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/timestamp"
)

// Pair is one (evaluated message, attestation) observation produced by
// walking a timestamp tree.
type Pair struct {
	Message     []byte
	Attestation attestation.Attestation

	// Node is the tree node the attestation was found on, so callers
	// that need to mutate the tree afterward (e.g. replacing a Pending
	// attestation once it upgrades, spec §4.4) don't have to re-walk.
	Node *timestamp.Node
}

// Evaluate walks tree starting from its root message and returns every
// (message, attestation) pair reachable from it, in encounter order.
// It never mutates tree. If any operation's Apply fails (e.g. SUBSTR
// past the end of the message), Evaluate stops and returns that error;
// pairs collected before the failing branch are still returned so a
// caller can judge "does any other path still verify" (spec §4.7,
// §7 "evaluation errors ... invalidate the affected path only").
func Evaluate(tree *timestamp.Tree) ([]Pair, error) {
	var pairs []Pair
	err := evaluateNode(tree.Root, tree.RootMessage, &pairs)
	return pairs, err
}

func evaluateNode(node *timestamp.Node, msg []byte, out *[]Pair) error {
	for _, a := range node.Attestations {
		*out = append(*out, Pair{Message: msg, Attestation: a, Node: node})
	}
	for _, oc := range node.Ops {
		childMsg, err := oc.Op.Apply(msg)
		if err != nil {
			return err
		}
		if err := evaluateNode(oc.Child, childMsg, out); err != nil {
			return err
		}
	}
	return nil
}

// FindPending returns every Pending attestation reachable in tree,
// paired with the evaluated message at its site (spec §4.6
// find_pending). It tolerates evaluation errors on sibling branches:
// a branch that fails to evaluate simply contributes no pending
// attestations, rather than aborting the whole scan, since upgrade is
// best-effort per-URI (spec §4.6 "failures ... never fatal to sibling
// upgrades").
func FindPending(tree *timestamp.Tree) []Pair {
	var pairs []Pair
	collectPending(tree.Root, tree.RootMessage, &pairs)
	return pairs
}

func collectPending(node *timestamp.Node, msg []byte, out *[]Pair) {
	for _, a := range node.Attestations {
		if p, ok := a.(attestation.Pending); ok {
			*out = append(*out, Pair{Message: msg, Attestation: p, Node: node})
		}
	}
	for _, oc := range node.Ops {
		childMsg, err := oc.Op.Apply(msg)
		if err != nil {
			continue
		}
		collectPending(oc.Child, childMsg, out)
	}
}
