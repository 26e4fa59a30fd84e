// Copyright 2025 Certen Protocol
//
// Collaborator interfaces (spec §6): the external I/O surfaces the
// core depends on but never implements. Concrete backends (a real
// HTTP client, a file-based cache, a particular RNG source) are the
// caller's responsibility per spec §1's scope boundary; this package
// only fixes the contracts, injected the way the teacher injects
// `*log.Logger` and `*database.Repositories` into its handlers rather
// than reaching for process-global state.

package collab

import (
	"context"
	"time"
)

// HTTPClient performs the calendar and block-explorer HTTP calls C6
// and C8 need. A connection failure should be returned as an error;
// callers translate that into attestation.Unknown, never a panic.
type HTTPClient interface {
	Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
	Post(ctx context.Context, url string, body []byte, contentType string, timeout time.Duration) ([]byte, error)
}

// BitcoinBlock is the subset of a full node's getblock(verbosity=2)
// response the verifier needs: enough to scan the coinbase transaction
// for an OP_RETURN commitment (spec §4.3 Bitcoin verification).
type BitcoinBlock struct {
	Hash              string
	Height            int64
	Time              int64
	CoinbaseRawTx     []byte
	MedianTime        int64
	Confirmations     int64
}

// BitcoinRPC is the full-node JSON-RPC surface spec §6 names.
type BitcoinRPC interface {
	GetBlockHash(ctx context.Context, height int64) (string, error)
	GetBlock(ctx context.Context, hash string) (*BitcoinBlock, error)
	GetBlockchainInfo(ctx context.Context) (height int64, bestHash string, err error)
}

// Hasher is provided for symmetry with spec §6's collaborator table;
// the core's own hashing (pkg/ops) is a pure function of its inputs
// and does not need injection, but a caller wiring HSM-backed or
// constant-time hashing for its own purposes can satisfy this.
type Hasher interface {
	SHA1(data []byte) []byte
	SHA256(data []byte) []byte
	RIPEMD160(data []byte) []byte
	Keccak256(data []byte) []byte
}

// RNG produces the 16-byte stamp-time nonce (spec §3 "Nonces are
// created once at stamp time by the RNG collaborator").
type RNG interface {
	RandomBytes16() ([16]byte, error)
}

// Clock is injected so time-window consistency checks (spec §4.9) are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// Cache is a single-key get/put/delete store for verdict and
// block-header lookups (spec §4.8 point 3). No production backend
// ships in this module — file, in-memory, and remote-KV backends are
// explicitly out of core scope (spec §1); pkg/collab/collabtest
// provides an in-memory Cache for tests only.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
