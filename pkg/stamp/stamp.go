// Copyright 2025 Certen Protocol
//
// High-level stamp/verify/info/upgrade operations (spec §4, C10): the
// glue package that wires C5-C9 together into the four library
// functions a CLI or service calls. Grounded on
// pkg/proof/artifact_service.go's "orchestration service wraps several
// generators behind one call" shape and pkg/proof/lifecycle.go's
// state-machine discipline (stamp lifecycle, spec §4.10).

package stamp

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"os"

	"github.com/certen/ots-engine/pkg/calendar"
	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/collab"
	"github.com/certen/ots-engine/pkg/timestamp"
)

// Engine bundles the collaborators and sub-packages every stamp
// operation needs. Construct one per caller (CLI invocation, service
// instance); it carries no mutable state of its own.
type Engine struct {
	RNG      collab.RNG
	Calendar *calendar.Client
	Logger   *log.Logger
}

// NewEngine returns an Engine with a default logger; callers must set
// RNG and Calendar themselves.
func NewEngine() *Engine {
	return &Engine{Logger: log.New(os.Stderr, "[stamp] ", log.LstdFlags)}
}

// StampResult is the outcome of a successful Stamp call.
type StampResult struct {
	Commitment []byte
	Envelope   []byte // the encoded detached-file bytes
	Accepted   []calendar.SubmissionResult
}

// Stamp computes document's commitment (nonce ‖ sha256(document)),
// submits it to the configured calendar pool, and returns the detached
// timestamp envelope. It fails only if every calendar submission
// failed — spec §7: "stamp throws only if all calendar submissions
// failed (no pending attestation created)".
func (e *Engine) Stamp(ctx context.Context, document []byte) (*StampResult, error) {
	nonce, err := e.RNG.RandomBytes16()
	if err != nil {
		return nil, fmt.Errorf("stamp: generate nonce: %w", err)
	}
	digest := sha256.Sum256(document)
	commitment := append(append([]byte{}, nonce[:]...), digest[:]...)

	tree := timestamp.NewTree(commitment)

	results, err := e.Calendar.Submit(ctx, commitment)
	accepted := countAccepted(results)
	if accepted == 0 {
		return nil, fmt.Errorf("stamp: no calendar accepted the digest: %w", err)
	}
	if err != nil {
		e.Logger.Printf("stamp: submission strategy unmet but %d/%d calendars accepted, continuing: %v",
			accepted, len(results), err)
	}

	for _, r := range results {
		if r.Node == nil {
			continue
		}
		sub := &timestamp.Tree{RootMessage: commitment, Root: r.Node}
		if mergeErr := timestamp.Merge(tree, sub); mergeErr != nil {
			e.Logger.Printf("stamp: discarding response from %s, root mismatch: %v", r.Calendar, mergeErr)
		}
	}

	envelope := &codec.Envelope{Version: codec.VersionNonce, Nonce: nonce[:], Node: tree.Root}
	return &StampResult{
		Commitment: commitment,
		Envelope:   codec.EncodeEnvelope(envelope),
		Accepted:   results,
	}, nil
}

func countAccepted(results []calendar.SubmissionResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
