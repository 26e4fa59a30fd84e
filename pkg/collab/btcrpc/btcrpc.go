// Copyright 2025 Certen Protocol
//
// Concrete collab.BitcoinRPC backed by a full Bitcoin node's JSON-RPC
// interface. Lives outside pkg/verifier because the RPC collaborator
// is an external I/O surface the core only consumes through an
// interface; this package is the reference backend a binary (cmd/ots)
// wires in, the way the teacher's cmd/bls-zk-setup wires a concrete
// signer into an interface the library layer only declares.

package btcrpc

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/certen/ots-engine/pkg/collab"
)

// Config names the full node's RPC endpoint and credentials.
type Config struct {
	Host         string
	User         string
	Pass         string
	DisableTLS   bool
	HTTPPostMode bool
}

// Client adapts rpcclient.Client to collab.BitcoinRPC.
type Client struct {
	rpc *rpcclient.Client
}

// Dial connects to a full node per cfg. The returned Client owns the
// underlying connection; callers must call Shutdown when done.
func Dial(cfg Config) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}
	rpc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("btcrpc: dial %s: %w", cfg.Host, err)
	}
	return &Client{rpc: rpc}, nil
}

// Shutdown closes the underlying RPC connection.
func (c *Client) Shutdown() {
	c.rpc.Shutdown()
}

// GetBlockHash implements collab.BitcoinRPC.
func (c *Client) GetBlockHash(_ context.Context, height int64) (string, error) {
	hash, err := c.rpc.GetBlockHash(height)
	if err != nil {
		return "", fmt.Errorf("btcrpc: get block hash at height %d: %w", height, err)
	}
	return hash.String(), nil
}

// GetBlock implements collab.BitcoinRPC, returning enough of the block
// to scan its coinbase transaction's outputs.
func (c *Client) GetBlock(_ context.Context, hashHex string) (*collab.BitcoinBlock, error) {
	hash, err := chainhash.NewHashFromStr(hashHex)
	if err != nil {
		return nil, fmt.Errorf("btcrpc: parse block hash %q: %w", hashHex, err)
	}
	verbose, err := c.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return nil, fmt.Errorf("btcrpc: get block %s: %w", hashHex, err)
	}
	if len(verbose.Tx) == 0 {
		return nil, fmt.Errorf("btcrpc: block %s has no transactions", hashHex)
	}
	coinbaseHex := verbose.Tx[0].Hex
	raw, err := hex.DecodeString(coinbaseHex)
	if err != nil {
		return nil, fmt.Errorf("btcrpc: decode coinbase tx hex: %w", err)
	}
	return &collab.BitcoinBlock{
		Hash:          verbose.Hash,
		Height:        verbose.Height,
		Time:          verbose.Time,
		CoinbaseRawTx: raw,
		MedianTime:    verbose.MedianTime,
		Confirmations: int64(verbose.Confirmations),
	}, nil
}

// GetBlockchainInfo implements collab.BitcoinRPC.
func (c *Client) GetBlockchainInfo(_ context.Context) (int64, string, error) {
	info, err := c.rpc.GetBlockChainInfo()
	if err != nil {
		return 0, "", fmt.Errorf("btcrpc: get blockchain info: %w", err)
	}
	return int64(info.Blocks), info.BestBlockHash, nil
}
