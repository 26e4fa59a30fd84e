// Copyright 2025 Certen Protocol
//
// Pending attestation verification: not a chain check but a request to
// the named calendar for the subtree that replaces this placeholder.
// If the calendar has resolved it, the returned subtree is evaluated
// in place and its first (message, attestation) pair is verified
// recursively, so a caller that only asked to verify one Pending leaf
// still gets a concrete answer once the calendar has one.

package verifier

import (
	"context"
	"fmt"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/merkle"
	"github.com/certen/ots-engine/pkg/timestamp"
)

func (c *Context) verifyPending(ctx context.Context, msg []byte, a attestation.Pending) (attestation.Verdict, error) {
	if c.Calendar == nil {
		return attestation.Unknown("no calendar client configured"), ErrNoCalendar
	}

	uri := string(a.URI)
	node, stillPending, err := c.Calendar.Upgrade(ctx, uri)
	if err != nil {
		return attestation.Unknown(fmt.Sprintf("calendar upgrade failed: %v", err)), nil
	}
	if stillPending {
		return attestation.VerdictPending(uri), nil
	}

	subtree := &timestamp.Tree{RootMessage: msg, Root: node}
	pairs, err := merkle.Evaluate(subtree)
	if err != nil {
		return attestation.Failed(attestation.ReasonBadUpgradeRoot,
			fmt.Sprintf("upgraded subtree from %s failed to evaluate: %v", uri, err)), nil
	}
	if len(pairs) == 0 {
		return attestation.Failed(attestation.ReasonBadUpgradeRoot,
			fmt.Sprintf("upgraded subtree from %s produced no attestations", uri)), nil
	}

	// A resolved calendar response is expected to carry exactly one
	// concrete attestation; verify the first and surface it.
	return c.VerifyAttestation(ctx, pairs[0].Message, pairs[0].Attestation)
}
