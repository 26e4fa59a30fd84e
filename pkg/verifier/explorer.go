// Copyright 2025 Certen Protocol
//
// Block-explorer fallback path, shared by the Bitcoin and Litecoin
// strategies: a JSON document naming the block's commitment-bearing
// OP_RETURN pushes, fetched over HTTP instead of a full node's RPC.

package verifier

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/certen/ots-engine/pkg/collab"
)

// explorerBlock is the JSON shape this module expects from a
// configured block-explorer endpoint.
type explorerBlock struct {
	Hash      string   `json:"hash"`
	Height    int64    `json:"height"`
	Time      int64    `json:"time"`
	OpReturns []string `json:"op_returns"` // hex-encoded OP_RETURN push payloads
	RawHeader string   `json:"raw_header"` // hex-encoded block header, used only in legacy-permissive mode
}

func fetchExplorerBlock(ctx context.Context, http collab.HTTPClient, urlTemplate string, height uint64, timeout time.Duration) (*explorerBlock, error) {
	if http == nil || urlTemplate == "" {
		return nil, ErrNoChainSource
	}
	url := fmt.Sprintf(urlTemplate, height)
	body, err := http.Get(ctx, url, timeout)
	if err != nil {
		return nil, fmt.Errorf("verifier: fetch explorer block: %w", err)
	}
	var block explorerBlock
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("verifier: parse explorer response: %w", err)
	}
	return &block, nil
}

// commitmentInBlock reports whether msg appears in one of the block's
// declared OP_RETURN pushes, or (legacy mode) anywhere in the raw
// header bytes.
func commitmentInBlock(block *explorerBlock, msg []byte, legacyPermissive bool) bool {
	for _, pushHex := range block.OpReturns {
		push, err := hex.DecodeString(pushHex)
		if err != nil {
			continue
		}
		if bytes.Equal(push, msg) {
			return true
		}
	}
	if legacyPermissive && block.RawHeader != "" {
		raw, err := hex.DecodeString(block.RawHeader)
		if err == nil && bytes.Contains(raw, msg) {
			return true
		}
	}
	return false
}
