// Copyright 2025 Certen Protocol
//
// Verdict caching (spec §4.8 point 3): verdicts are cached by the pair
// (attestation-encoded-bytes, evaluated message) so a tree with the
// same anchor repeated across branches only hits the network once.

package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/certen/ots-engine/pkg/attestation"
)

func verdictCacheKey(a attestation.Attestation, msg []byte) string {
	h := sha256.New()
	h.Write(attestation.EncodeBytes(a))
	h.Write(msg)
	return "ots:verdict:" + hex.EncodeToString(h.Sum(nil))
}

func (c *Context) cacheLookup(ctx context.Context, key string) (attestation.Verdict, bool) {
	if c.Cache == nil {
		return attestation.Verdict{}, false
	}
	raw, ok, err := c.Cache.Get(ctx, key)
	if err != nil || !ok {
		return attestation.Verdict{}, false
	}
	var v attestation.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return attestation.Verdict{}, false
	}
	return v, true
}

func (c *Context) cacheStore(ctx context.Context, key string, v attestation.Verdict) {
	if c.Cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Cache.Put(ctx, key, raw, cacheTTL)
}
