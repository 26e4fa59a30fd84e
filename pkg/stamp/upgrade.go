// Copyright 2025 Certen Protocol
//
// Upgrade (spec §4.6, §4.10): find every Pending attestation reachable
// in a tree, poll its calendar, and replace it in place with the
// concrete subtree once the calendar has one. Per spec §7, upgrade
// never throws; it reports how many of the pending leaves it found
// resolved.

package stamp

import (
	"context"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/merkle"
	"github.com/certen/ots-engine/pkg/timestamp"
)

// UpgradeResult summarizes one Upgrade call.
type UpgradeResult struct {
	Found     int // pending attestations discovered
	Upgraded  int // pending attestations replaced with a concrete subtree
	StillOpen int // pending attestations whose calendar had nothing new
	Failed    int // calendar calls that errored outright
}

// Any reports whether at least one pending attestation was upgraded,
// the signal a CLI uses to choose between exit codes 0 and 2 (spec
// §6's "exit 2 on no upgrade available").
func (r UpgradeResult) Any() bool {
	return r.Upgraded > 0
}

// Upgrade walks tree for Pending attestations and attempts to resolve
// each one independently; a failure polling one URI never blocks the
// others (spec §4.6 "failures ... never fatal to sibling upgrades").
func (e *Engine) Upgrade(ctx context.Context, tree *timestamp.Tree) (UpgradeResult, error) {
	pending := merkle.FindPending(tree)
	result := UpgradeResult{Found: len(pending)}

	for _, p := range pending {
		upgraded, err := e.upgradeOne(ctx, p)
		switch {
		case err != nil:
			result.Failed++
			e.Logger.Printf("upgrade: %v", err)
		case upgraded:
			result.Upgraded++
		default:
			result.StillOpen++
		}
	}
	return result, nil
}

func (e *Engine) upgradeOne(ctx context.Context, pair merkle.Pair) (bool, error) {
	pending, ok := pair.Attestation.(attestation.Pending)
	if !ok {
		return false, nil
	}

	node, stillPending, err := e.Calendar.Upgrade(ctx, string(pending.URI))
	if err != nil {
		return false, err
	}
	if stillPending {
		return false, nil
	}

	timestamp.ReplacePending(pair.Node, pending, node)
	return true, nil
}
