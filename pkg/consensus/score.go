// Copyright 2025 Certen Protocol
//
// Consensus scorer (spec §4.9): aggregates per-attestation verdicts
// into an overall confidence score and security level. Grounded on
// the teacher's BFT threshold parameters (`ConsensusParams`'s
// `MinVotingPower`/weighted-quorum shape in
// pkg/consensus/bft_integration.go) with validator voting power
// replaced by a fixed per-chain attestation weight: the scored
// entities here are chain anchors, not replicated validators, so
// there is no voting round to run, only a weighted sum to compute.

package consensus

import (
	"github.com/certen/ots-engine/pkg/attestation"
)

// Weight is the trust contribution of one fully verified attestation
// of a given chain (spec §4.9).
type Weight float64

// Chain attestation weights, spec §4.9.
const (
	WeightBitcoin  Weight = 1.0
	WeightLitecoin Weight = 0.8
	WeightEthereum Weight = 0.7
	WeightPending  Weight = 0.1
)

func weightFor(a attestation.Attestation) Weight {
	switch a.(type) {
	case attestation.BitcoinBlockHeader:
		return WeightBitcoin
	case attestation.LitecoinBlockHeader:
		return WeightLitecoin
	case attestation.Ethereum:
		return WeightEthereum
	case attestation.Pending:
		return WeightPending
	default:
		return 0
	}
}

// Level is the overall security classification spec §4.9 assigns a
// scored result.
type Level string

const (
	LevelStrong   Level = "strong"
	LevelModerate Level = "moderate"
	LevelWeak     Level = "weak"
	LevelNone     Level = "none"
)

// DefaultMinScore is the configured minimum confidence score spec
// §4.9's overall-valid condition (iii) requires, absent an explicit
// override.
const DefaultMinScore = 0.6

// Config parameterizes Score's overall-valid threshold.
type Config struct {
	MinScore float64
}

// DefaultConfig returns the spec's default minimum score.
func DefaultConfig() Config {
	return Config{MinScore: DefaultMinScore}
}

// Result is the scorer's output for one verify call.
type Result struct {
	Score          float64
	Level          Level
	DistinctChains int  // count of distinct chain kinds with a Verified verdict
	OverallValid   bool // spec §4.9's three-condition overall-valid gate
}

// Score aggregates verdicts into a Result. evalErr is the Merkle
// evaluator's error (nil on a clean evaluation); overall-valid
// condition (i) requires it to be nil.
func Score(cfg Config, verdicts []AttestationVerdict, evalErr error) Result {
	var (
		verifiedWeight float64
		totalWeight    float64
		distinct       = make(map[string]bool)
	)
	for _, v := range verdicts {
		if v.Verdict.Kind == attestation.KindUnknown {
			continue // excluded from both numerator and denominator, spec §4.9
		}
		w := float64(weightFor(v.Attestation))
		totalWeight += w
		if v.Verdict.Kind == attestation.KindVerified {
			verifiedWeight += w
			distinct[chainKey(v.Attestation)] = true
		}
	}

	var score float64
	if totalWeight > 0 {
		score = verifiedWeight / totalWeight
	}

	level := levelFor(score, len(distinct))

	overallValid := evalErr == nil && len(distinct) > 0 && score >= cfg.MinScore
	return Result{
		Score:          score,
		Level:          level,
		DistinctChains: len(distinct),
		OverallValid:   overallValid,
	}
}

func levelFor(score float64, distinctChains int) Level {
	switch {
	case distinctChains >= 2 && score >= 0.8:
		return LevelStrong
	case distinctChains >= 1 && score >= 0.6:
		return LevelModerate
	case score >= 0.3:
		return LevelWeak
	default:
		return LevelNone
	}
}

func chainKey(a attestation.Attestation) string {
	switch a.(type) {
	case attestation.BitcoinBlockHeader:
		return "bitcoin"
	case attestation.LitecoinBlockHeader:
		return "litecoin"
	case attestation.Ethereum:
		return "ethereum"
	case attestation.Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// AttestationVerdict is the scorer's input shape: one attestation and
// the verdict reached verifying it.
type AttestationVerdict struct {
	Attestation attestation.Attestation
	Verdict     attestation.Verdict
}
