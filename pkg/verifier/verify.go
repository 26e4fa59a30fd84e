// Copyright 2025 Certen Protocol
//
// Top-level verify entry point (spec §4.8): evaluates every path in a
// tree against a commitment, then verifies each resulting
// (message, attestation) pair, deduping repeated anchors within the
// same call.

package verifier

import (
	"bytes"
	"context"
	"fmt"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/consensus"
	"github.com/certen/ots-engine/pkg/merkle"
	"github.com/certen/ots-engine/pkg/timestamp"
)

// AttestationResult pairs one evaluated leaf message, its attestation,
// and the verdict a Context reached for it.
type AttestationResult struct {
	Message     []byte
	Attestation attestation.Attestation
	Verdict     attestation.Verdict
}

// Result is the outcome of verifying an entire tree.
type Result struct {
	// CommitmentMatched is false when the tree's root message does not
	// equal the commitment the caller expected to verify (spec §4.8
	// point "fail fast" case); when false, Attestations is empty and no
	// network calls were made.
	CommitmentMatched bool
	Attestations      []AttestationResult
	// EvalErr is the error (if any) the Merkle evaluator stopped on;
	// verdicts already collected before the failing branch are still
	// reported.
	EvalErr error
	// Consensus is the scored outcome across every attestation (spec
	// §4.9): confidence score, security level, and the three-condition
	// overall-valid gate.
	Consensus consensus.Result
	// Consistency classifies the pairwise drift among every Verified
	// anchor's anchor_time (spec §4.9's time-window check), plus the
	// Context's wall-clock reading when one is configured.
	Consistency consensus.Consistency
}

// VerifyAll evaluates tree and verifies every attestation reachable
// from it, given that tree's root message equals commitment.
func (c *Context) VerifyAll(ctx context.Context, tree *timestamp.Tree, commitment []byte) (*Result, error) {
	if !bytes.Equal(tree.RootMessage, commitment) {
		return &Result{CommitmentMatched: false}, nil
	}

	pairs, evalErr := merkle.Evaluate(tree)

	result := &Result{CommitmentMatched: true, EvalErr: evalErr}
	seen := make(map[string]attestation.Verdict, len(pairs))
	verdicts := make([]consensus.AttestationVerdict, 0, len(pairs))
	var anchorTimes []uint64

	for _, pair := range pairs {
		key := verdictCacheKey(pair.Attestation, pair.Message)
		verdict, ok := seen[key]
		if !ok {
			var err error
			verdict, err = c.VerifyAttestation(ctx, pair.Message, pair.Attestation)
			if err != nil {
				verdict = attestation.Unknown(fmt.Sprintf("verify error: %v", err))
			}
			seen[key] = verdict
		}
		result.Attestations = append(result.Attestations, AttestationResult{
			Message:     pair.Message,
			Attestation: pair.Attestation,
			Verdict:     verdict,
		})
		verdicts = append(verdicts, consensus.AttestationVerdict{Attestation: pair.Attestation, Verdict: verdict})
		if verdict.Kind == attestation.KindVerified && verdict.AnchorTime != nil {
			anchorTimes = append(anchorTimes, *verdict.AnchorTime)
		}
	}

	cfg := c.ConsensusConfig
	if cfg.MinScore == 0 {
		cfg = consensus.DefaultConfig()
	}
	result.Consensus = consensus.Score(cfg, verdicts, evalErr)

	if c.Clock != nil {
		anchorTimes = append(anchorTimes, uint64(c.Clock.Now().Unix()))
	}
	result.Consistency = consensus.TimeWindowConsistency(anchorTimes)

	return result, nil
}
