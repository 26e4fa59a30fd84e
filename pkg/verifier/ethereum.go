// Copyright 2025 Certen Protocol
//
// Ethereum attestation verification: fetches the named transaction via
// ethclient and checks msg appears in its input data, falling back to
// a configured explorer when no RPC URL is wired.

package verifier

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/certen/ots-engine/pkg/attestation"
)

func (c *Context) verifyEthereum(ctx context.Context, msg []byte, a attestation.Ethereum) (attestation.Verdict, error) {
	cacheKey := verdictCacheKey(a, msg)
	if v, ok := c.cacheLookup(ctx, cacheKey); ok {
		return v, nil
	}

	var (
		verdict attestation.Verdict
		err     error
	)
	if c.EthereumRPCURL != "" {
		verdict, err = c.verifyEthereumViaRPC(ctx, msg, a)
	} else if c.EthereumExplorerURL != "" {
		verdict, err = c.verifyEthereumViaExplorer(ctx, msg, a)
	} else {
		return attestation.Unknown("no ethereum RPC or explorer configured"), ErrNoChainSource
	}
	if err == nil {
		c.cacheStore(ctx, cacheKey, verdict)
	}
	return verdict, err
}

func (c *Context) verifyEthereumViaRPC(ctx context.Context, msg []byte, a attestation.Ethereum) (attestation.Verdict, error) {
	client, err := ethclient.DialContext(ctx, c.EthereumRPCURL)
	if err != nil {
		return attestation.Unknown(fmt.Sprintf("dial ethereum rpc: %v", err)), nil
	}
	defer client.Close()

	txCtx, cancel := contextWithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	tx, isPending, err := client.TransactionByHash(txCtx, common.BytesToHash(a.TxHash[:]))
	if err != nil {
		return attestation.Unknown(fmt.Sprintf("fetch tx %x: %v", a.TxHash, err)), nil
	}
	if isPending {
		return attestation.Failed(attestation.ReasonCommitmentNotFound, "transaction not yet mined"), nil
	}

	receipt, err := client.TransactionReceipt(txCtx, tx.Hash())
	if err != nil {
		return attestation.Unknown(fmt.Sprintf("fetch receipt for %x: %v", a.TxHash, err)), nil
	}
	if receipt.BlockNumber == nil || receipt.BlockNumber.Uint64() != a.BlockNumber {
		return attestation.Failed(attestation.ReasonWrongBlock,
			fmt.Sprintf("tx %x mined at a different block than attested", a.TxHash)), nil
	}
	if !bytes.Contains(tx.Data(), msg) {
		return attestation.Failed(attestation.ReasonCommitmentNotFound,
			fmt.Sprintf("commitment not found in tx %x input data", a.TxHash)), nil
	}

	header, err := client.HeaderByNumber(txCtx, receipt.BlockNumber)
	var anchorTime *uint64
	if err == nil {
		t := header.Time
		anchorTime = &t
	}
	return attestation.Verified(tx.Hash().Hex(), anchorTime), nil
}

type explorerTx struct {
	Input       string `json:"input"`
	BlockNumber uint64 `json:"block_number"`
	Timestamp   uint64 `json:"timestamp"`
}

func (c *Context) verifyEthereumViaExplorer(ctx context.Context, msg []byte, a attestation.Ethereum) (attestation.Verdict, error) {
	url := fmt.Sprintf(c.EthereumExplorerURL, hex.EncodeToString(a.TxHash[:]))
	body, err := c.HTTP.Get(ctx, url, c.RequestTimeout)
	if err != nil {
		return attestation.Unknown(fmt.Sprintf("fetch explorer tx: %v", err)), nil
	}
	var tx explorerTx
	if err := json.Unmarshal(body, &tx); err != nil {
		return attestation.Unknown(fmt.Sprintf("parse explorer tx: %v", err)), nil
	}
	if tx.BlockNumber != a.BlockNumber {
		return attestation.Failed(attestation.ReasonWrongBlock, "explorer tx mined at a different block than attested"), nil
	}
	input, err := hex.DecodeString(trim0x(tx.Input))
	if err != nil {
		return attestation.Failed(attestation.ReasonResponseUnparsable, "explorer returned unparsable tx input"), nil
	}
	if !bytes.Contains(input, msg) {
		return attestation.Failed(attestation.ReasonCommitmentNotFound, "commitment not found in explorer tx input"), nil
	}
	anchorTime := tx.Timestamp
	return attestation.Verified(hex.EncodeToString(a.TxHash[:]), &anchorTime), nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
