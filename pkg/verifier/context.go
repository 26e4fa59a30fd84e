// Copyright 2025 Certen Protocol
//
// Attestation verifier (spec §4.8): given a leaf commitment and a
// tree, walks every Merkle path and asks each attestation to verify
// itself against the evaluated message at its site. Bitcoin prefers a
// full-node RPC path with an explorer fallback; Ethereum uses
// ethclient; Pending issues a calendar GET.

package verifier

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/calendar"
	"github.com/certen/ots-engine/pkg/collab"
	"github.com/certen/ots-engine/pkg/consensus"
)

// Context carries everything a single verify call needs: the
// collaborators named in spec §6, plus in-scope verification policy
// (spec §9 Open Question 1's legacy/tightened switch).
type Context struct {
	HTTP     collab.HTTPClient
	BTCRPC   collab.BitcoinRPC // nil disables the full-node path
	Clock    collab.Clock
	Cache    collab.Cache // nil disables caching
	Calendar *calendar.Client

	// BitcoinExplorerURL and LitecoinExplorerURL are fmt.Sprintf
	// templates taking the block height, used when BTCRPC is nil or
	// fails, or always for Litecoin (no RPC collaborator exists for
	// it in spec §6 — "Litecoin follows the same pattern against its
	// chain explorers").
	BitcoinExplorerURL  string
	LitecoinExplorerURL string

	// EthereumRPCURL, if set, is dialed per call via ethclient for the
	// Ethereum attestation path; EthereumExplorerURL is a fallback
	// fmt.Sprintf template taking the tx hash.
	EthereumRPCURL      string
	EthereumExplorerURL string

	// RequestTimeout bounds each block-explorer HTTP call and each
	// Ethereum RPC call (default 30s). Bitcoin RPC calls are not bounded
	// by it; they run under the caller's ctx only. Pending-attestation
	// calendar calls use the calendar client's own Policy.Timeout.
	RequestTimeout time.Duration

	// LegacyPermissive, when true, accepts a commitment found anywhere
	// in the raw bytes the chain source returned (the coinbase
	// transaction on the RPC path, the block header on the explorer
	// path) instead of requiring it sit in a known commitment slot
	// (OP_RETURN output or coinbase scriptSig).
	// Default false: spec §9 Open Question 1 resolves to the tightened
	// check. Legacy mode exists for compatibility with proofs anchored
	// before the tightened check was canonical.
	LegacyPermissive bool

	// ConsensusConfig parameterizes the scorer's overall-valid minimum
	// score (spec §4.9); the zero value falls back to
	// consensus.DefaultConfig().
	ConsensusConfig consensus.Config

	Metrics *Metrics
	Logger  *log.Logger
}

// DefaultRequestTimeout matches spec §5's per-request default.
const DefaultRequestTimeout = 30 * time.Second

// cacheTTL bounds how long a verdict is trusted before a fresh check
// is forced; chain-confirmed verdicts do not change, but the TTL keeps
// a long-lived cache from growing without bound.
const cacheTTL = 24 * time.Hour

// NewContext returns a Context with sane defaults; callers still must
// set HTTP and, for chain verification, the RPC/explorer fields.
func NewContext() *Context {
	return &Context{
		RequestTimeout:  DefaultRequestTimeout,
		ConsensusConfig: consensus.DefaultConfig(),
		Metrics:         NewMetrics(),
		Logger:          log.New(os.Stderr, "[verifier] ", log.LstdFlags),
	}
}

func (c *Context) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, d)
}

// VerifyAttestation dispatches to the strategy for a's concrete type
// (spec §4.3's per-variant verification strategies).
func (c *Context) VerifyAttestation(ctx context.Context, msg []byte, a attestation.Attestation) (attestation.Verdict, error) {
	start := time.Now()
	var (
		verdict attestation.Verdict
		err     error
		kind    string
	)
	switch v := a.(type) {
	case attestation.BitcoinBlockHeader:
		kind = "bitcoin"
		verdict, err = c.verifyBitcoin(ctx, msg, v)
	case attestation.LitecoinBlockHeader:
		kind = "litecoin"
		verdict, err = c.verifyLitecoin(ctx, msg, v)
	case attestation.Ethereum:
		kind = "ethereum"
		verdict, err = c.verifyEthereum(ctx, msg, v)
	case attestation.Pending:
		kind = "pending"
		verdict, err = c.verifyPending(ctx, msg, v)
	default:
		return attestation.Unknown(fmt.Sprintf("unsupported attestation type %T", a)), nil
	}
	if c.Metrics != nil {
		c.Metrics.ObserveVerify(kind, verdict.Kind, time.Since(start))
	}
	if err != nil {
		c.logf("verify %s failed: %v", kind, err)
	}
	return verdict, err
}
