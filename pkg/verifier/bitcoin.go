// Copyright 2025 Certen Protocol
//
// Bitcoin attestation verification (spec §4.3, §9 Open Question 1):
// prefers a full-node RPC path that parses the coinbase transaction's
// OP_RETURN outputs with txscript, falling back to a configured block
// explorer when no RPC collaborator is wired or the node call fails.

package verifier

import (
	"bytes"
	"context"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/certen/ots-engine/pkg/attestation"
)

func (c *Context) verifyBitcoin(ctx context.Context, msg []byte, a attestation.BitcoinBlockHeader) (attestation.Verdict, error) {
	cacheKey := verdictCacheKey(a, msg)
	if v, ok := c.cacheLookup(ctx, cacheKey); ok {
		return v, nil
	}

	verdict, err := c.verifyBitcoinUncached(ctx, msg, a)
	if err == nil {
		c.cacheStore(ctx, cacheKey, verdict)
	}
	return verdict, err
}

func (c *Context) verifyBitcoinUncached(ctx context.Context, msg []byte, a attestation.BitcoinBlockHeader) (attestation.Verdict, error) {
	if c.BTCRPC != nil {
		verdict, err := c.verifyBitcoinViaRPC(ctx, msg, a)
		if err == nil {
			return verdict, nil
		}
		c.logf("bitcoin RPC path failed for height %d, falling back to explorer: %v", a.Height, err)
	}
	if c.BitcoinExplorerURL == "" {
		if c.BTCRPC == nil {
			return attestation.Unknown("no bitcoin RPC or explorer configured"), ErrNoChainSource
		}
		return attestation.Unknown("bitcoin RPC failed and no explorer fallback configured"), nil
	}
	return c.verifyBitcoinViaExplorer(ctx, msg, a)
}

func (c *Context) verifyBitcoinViaRPC(ctx context.Context, msg []byte, a attestation.BitcoinBlockHeader) (attestation.Verdict, error) {
	hash, err := c.BTCRPC.GetBlockHash(ctx, int64(a.Height))
	if err != nil {
		return attestation.Verdict{}, fmt.Errorf("get block hash: %w", err)
	}
	block, err := c.BTCRPC.GetBlock(ctx, hash)
	if err != nil {
		return attestation.Verdict{}, fmt.Errorf("get block: %w", err)
	}
	found, err := coinbaseCommitsMessage(block.CoinbaseRawTx, msg, c.LegacyPermissive)
	if err != nil {
		return attestation.Verdict{}, fmt.Errorf("parse coinbase tx: %w", err)
	}
	if !found {
		return attestation.Failed(attestation.ReasonCommitmentNotFound,
			fmt.Sprintf("commitment not found in block %s coinbase outputs", hash)), nil
	}
	anchorTime := uint64FromInt64(block.Time)
	return attestation.Verified(block.Hash, &anchorTime), nil
}

// coinbaseCommitsMessage parses rawTx as a Bitcoin transaction and
// reports whether msg appears as pushed data in one of its OP_RETURN
// (or push-only) outputs or in its coinbase input's scriptSig (the
// tightened check, spec §9 Open Question 1). In legacy
// permissive mode it also accepts msg appearing anywhere in the raw
// transaction bytes, for compatibility with proofs anchored before the
// tightened check was canonical.
func coinbaseCommitsMessage(rawTx []byte, msg []byte, legacyPermissive bool) (bool, error) {
	if legacyPermissive && bytes.Contains(rawTx, msg) {
		return true, nil
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(rawTx)); err != nil {
		return false, err
	}
	for _, out := range tx.TxOut {
		if !txscript.IsPushOnlyScript(out.PkScript) && !isOpReturn(out.PkScript) {
			continue
		}
		pushes, err := txscript.PushedData(out.PkScript)
		if err != nil {
			continue
		}
		for _, push := range pushes {
			if bytes.Equal(push, msg) {
				return true, nil
			}
		}
	}
	if len(tx.TxIn) > 0 {
		if pushes, err := txscript.PushedData(tx.TxIn[0].SignatureScript); err == nil {
			for _, push := range pushes {
				if bytes.Equal(push, msg) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func isOpReturn(script []byte) bool {
	return len(script) > 0 && script[0] == txscript.OP_RETURN
}

func (c *Context) verifyBitcoinViaExplorer(ctx context.Context, msg []byte, a attestation.BitcoinBlockHeader) (attestation.Verdict, error) {
	block, err := fetchExplorerBlock(ctx, c.HTTP, c.BitcoinExplorerURL, a.Height, c.RequestTimeout)
	if err != nil {
		return attestation.Unknown(err.Error()), nil
	}
	if !commitmentInBlock(block, msg, c.LegacyPermissive) {
		return attestation.Failed(attestation.ReasonCommitmentNotFound,
			fmt.Sprintf("commitment not found in explorer block %s", block.Hash)), nil
	}
	anchorTime := uint64FromInt64(block.Time)
	return attestation.Verified(block.Hash, &anchorTime), nil
}

func uint64FromInt64(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
