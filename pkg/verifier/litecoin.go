// Copyright 2025 Certen Protocol
//
// Litecoin attestation verification. Spec §6 lists no full-node RPC
// collaborator for Litecoin ("Litecoin follows the same pattern
// against its chain explorers") so this path only ever goes through
// the configured explorer.

package verifier

import (
	"context"
	"fmt"

	"github.com/certen/ots-engine/pkg/attestation"
)

func (c *Context) verifyLitecoin(ctx context.Context, msg []byte, a attestation.LitecoinBlockHeader) (attestation.Verdict, error) {
	cacheKey := verdictCacheKey(a, msg)
	if v, ok := c.cacheLookup(ctx, cacheKey); ok {
		return v, nil
	}

	if c.LitecoinExplorerURL == "" {
		return attestation.Unknown("no litecoin explorer configured"), ErrNoChainSource
	}
	block, err := fetchExplorerBlock(ctx, c.HTTP, c.LitecoinExplorerURL, a.Height, c.RequestTimeout)
	if err != nil {
		return attestation.Unknown(err.Error()), nil
	}
	if !commitmentInBlock(block, msg, c.LegacyPermissive) {
		verdict := attestation.Failed(attestation.ReasonCommitmentNotFound,
			fmt.Sprintf("commitment not found in litecoin block %s", block.Hash))
		return verdict, nil
	}
	anchorTime := uint64FromInt64(block.Time)
	verdict := attestation.Verified(block.Hash, &anchorTime)
	c.cacheStore(ctx, cacheKey, verdict)
	return verdict, nil
}
