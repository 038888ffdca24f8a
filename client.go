// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package esplora implements a client for Esplora-style block explorer HTTP
// APIs, exposing blockchain data (blocks, transactions, addresses, fee
// estimates) as typed results over bitcoin consensus types.
//
// Each call is an independent, stateless round trip with bounded retry for
// transient server errors. Concurrent calls share only the immutable client
// configuration, so a single Client is safe for concurrent use.
package esplora

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// The Client type provides access to an Esplora server over HTTP. Its
// configuration is immutable after construction
type Client struct {
	url        string
	maxRetries int
	headers    map[string]string
	transport  Transport
	sleeper    Sleeper
	logger     *slog.Logger
}

// NewClient returns a new Client with the specified options. An error will be
// returned if no base URL is provided or the retry count is negative
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		maxRetries: DefaultMaxRetries,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.url == "" {
		return nil, errors.New("no base URL provided")
	}
	if c.maxRetries < 0 {
		return nil, fmt.Errorf("invalid max retries value provided: %d", c.maxRetries)
	}
	if c.transport == nil {
		c.transport = newHTTPTransport()
	}
	if c.sleeper == nil {
		c.sleeper = DefaultSleeper{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// URL returns the base URL of the Esplora server
func (c *Client) URL() string {
	return c.url
}

// GetTx returns the transaction with the given txid, or nil if the server
// does not know it
func (c *Client) GetTx(
	ctx context.Context,
	txid *chainhash.Hash,
) (*wire.MsgTx, error) {
	var tx wire.MsgTx
	found, err := c.getOptResponse(
		ctx,
		fmt.Sprintf("/tx/%s/raw", txid),
		&tx,
	)
	if err != nil || !found {
		return nil, err
	}
	return &tx, nil
}

// GetTxStatus returns the confirmation status of the transaction with the
// given txid
func (c *Client) GetTxStatus(
	ctx context.Context,
	txid *chainhash.Hash,
) (*TxStatus, error) {
	var status TxStatus
	if err := c.getResponseJSON(
		ctx,
		fmt.Sprintf("/tx/%s/status", txid),
		&status,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTxInfo returns decoded transaction info for the given txid, or nil if
// the server does not know it
func (c *Client) GetTxInfo(
	ctx context.Context,
	txid *chainhash.Hash,
) (*Tx, error) {
	var tx Tx
	found, err := c.getOptResponseJSON(
		ctx,
		fmt.Sprintf("/tx/%s", txid),
		&tx,
	)
	if err != nil || !found {
		return nil, err
	}
	return &tx, nil
}

// GetTxIDAtBlockIndex returns the txid of the transaction at the given index
// within the block with the given hash, or nil if the block or index is
// unknown
func (c *Client) GetTxIDAtBlockIndex(
	ctx context.Context,
	blockHash *chainhash.Hash,
	index uint32,
) (*chainhash.Hash, error) {
	text, found, err := c.getOptResponseText(
		ctx,
		fmt.Sprintf("/block/%s/txid/%d", blockHash, index),
	)
	if err != nil || !found {
		return nil, err
	}
	txid, err := chainhash.NewHashFromStr(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidIdentifier, text, err)
	}
	return txid, nil
}

// GetHeaderByHash returns the header of the block with the given hash
func (c *Client) GetHeaderByHash(
	ctx context.Context,
	blockHash *chainhash.Hash,
) (*wire.BlockHeader, error) {
	var header wire.BlockHeader
	if err := c.getResponseHex(
		ctx,
		fmt.Sprintf("/block/%s/header", blockHash),
		&header,
	); err != nil {
		return nil, err
	}
	return &header, nil
}

// GetBlockStatus returns the chain placement of the block with the given hash
func (c *Client) GetBlockStatus(
	ctx context.Context,
	blockHash *chainhash.Hash,
) (*BlockStatus, error) {
	var status BlockStatus
	if err := c.getResponseJSON(
		ctx,
		fmt.Sprintf("/block/%s/status", blockHash),
		&status,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetBlockByHash returns the full block with the given hash, or nil if the
// server does not know it
func (c *Client) GetBlockByHash(
	ctx context.Context,
	blockHash *chainhash.Hash,
) (*wire.MsgBlock, error) {
	var block wire.MsgBlock
	found, err := c.getOptResponse(
		ctx,
		fmt.Sprintf("/block/%s/raw", blockHash),
		&block,
	)
	if err != nil || !found {
		return nil, err
	}
	return &block, nil
}

// GetMerkleProof returns a merkle inclusion proof for the transaction with
// the given txid, or nil if the transaction is unknown or unconfirmed
func (c *Client) GetMerkleProof(
	ctx context.Context,
	txid *chainhash.Hash,
) (*MerkleProof, error) {
	var proof MerkleProof
	found, err := c.getOptResponseJSON(
		ctx,
		fmt.Sprintf("/tx/%s/merkle-proof", txid),
		&proof,
	)
	if err != nil || !found {
		return nil, err
	}
	return &proof, nil
}

// GetMerkleBlock returns a merkle block inclusion proof for the transaction
// with the given txid, or nil if the transaction is unknown or unconfirmed
func (c *Client) GetMerkleBlock(
	ctx context.Context,
	txid *chainhash.Hash,
) (*wire.MsgMerkleBlock, error) {
	var merkleBlock wire.MsgMerkleBlock
	found, err := c.getOptResponseHex(
		ctx,
		fmt.Sprintf("/tx/%s/merkleblock-proof", txid),
		&merkleBlock,
	)
	if err != nil || !found {
		return nil, err
	}
	return &merkleBlock, nil
}

// GetOutputStatus returns the spend status of the output with the given index
// of the transaction with the given txid, or nil if the transaction is
// unknown
func (c *Client) GetOutputStatus(
	ctx context.Context,
	txid *chainhash.Hash,
	index uint32,
) (*OutputStatus, error) {
	var status OutputStatus
	found, err := c.getOptResponseJSON(
		ctx,
		fmt.Sprintf("/tx/%s/outspend/%d", txid, index),
		&status,
	)
	if err != nil || !found {
		return nil, err
	}
	return &status, nil
}

// BroadcastTx submits a transaction to the server for relay to the network
func (c *Client) BroadcastTx(ctx context.Context, tx *wire.MsgTx) error {
	return c.postRequestHex(ctx, "/tx", tx)
}

// GetTipHeight returns the height of the current chain tip
func (c *Client) GetTipHeight(ctx context.Context) (uint32, error) {
	text, err := c.getResponseText(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, &DecodeError{Encoding: "text", Err: err}
	}
	return uint32(height), nil
}

// GetTipHash returns the hash of the current chain tip
func (c *Client) GetTipHash(ctx context.Context) (*chainhash.Hash, error) {
	text, err := c.getResponseText(ctx, "/blocks/tip/hash")
	if err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromStr(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidIdentifier, text, err)
	}
	return hash, nil
}

// GetBlockHash returns the hash of the block at the given height
func (c *Client) GetBlockHash(
	ctx context.Context,
	height uint32,
) (*chainhash.Hash, error) {
	text, err := c.getResponseText(
		ctx,
		fmt.Sprintf("/block-height/%d", height),
	)
	if err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromStr(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidIdentifier, text, err)
	}
	return hash, nil
}

// GetAddressStats returns information about the given address, including
// confirmed balance and transactions in the mempool
func (c *Client) GetAddressStats(
	ctx context.Context,
	address btcutil.Address,
) (*AddressStats, error) {
	var stats AddressStats
	if err := c.getResponseJSON(
		ctx,
		fmt.Sprintf("/address/%s", address.EncodeAddress()),
		&stats,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetAddressTxs returns transaction history for the given address, sorted
// with newest first. The server returns mempool transactions plus the first
// page of confirmed transactions; further pages can be requested by passing
// the last txid seen by the previous query
func (c *Client) GetAddressTxs(
	ctx context.Context,
	address btcutil.Address,
	lastSeen *chainhash.Hash,
) ([]Tx, error) {
	path := fmt.Sprintf("/address/%s/txs", address.EncodeAddress())
	if lastSeen != nil {
		path = fmt.Sprintf(
			"/address/%s/txs/chain/%s",
			address.EncodeAddress(),
			lastSeen,
		)
	}
	var txs []Tx
	if err := c.getResponseJSON(ctx, path, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetScriptHashTxs returns confirmed transaction history for the given output
// script, sorted with newest first. Further pages can be requested by passing
// the last txid seen by the previous query
func (c *Client) GetScriptHashTxs(
	ctx context.Context,
	pkScript []byte,
	lastSeen *chainhash.Hash,
) ([]Tx, error) {
	scriptHash := sha256.Sum256(pkScript)
	path := fmt.Sprintf("/scripthash/%x/txs", scriptHash)
	if lastSeen != nil {
		path = fmt.Sprintf(
			"/scripthash/%x/txs/chain/%s",
			scriptHash,
			lastSeen,
		)
	}
	var txs []Tx
	if err := c.getResponseJSON(ctx, path, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetFeeEstimates returns a map from confirmation target (in blocks) to
// estimated fee rate (in sat/vB)
func (c *Client) GetFeeEstimates(
	ctx context.Context,
) (map[int]float64, error) {
	var estimates map[int]float64
	if err := c.getResponseJSON(ctx, "/fee-estimates", &estimates); err != nil {
		return nil, err
	}
	return estimates, nil
}

// GetBlocks returns recent block summaries starting at the tip, or at
// startHeight if provided. The server guarantees at least one summary; an
// empty result is returned as ErrEmptyResponse
func (c *Client) GetBlocks(
	ctx context.Context,
	startHeight *uint32,
) ([]BlockSummary, error) {
	path := "/blocks"
	if startHeight != nil {
		path = fmt.Sprintf("/blocks/%d", *startHeight)
	}
	var blocks []BlockSummary
	if err := c.getResponseJSON(ctx, path, &blocks); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrEmptyResponse
	}
	return blocks, nil
}
