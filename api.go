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

package esplora

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TxStatus is the confirmation status of a transaction. The block fields are
// only populated when the transaction is confirmed
type TxStatus struct {
	Confirmed   bool    `json:"confirmed"`
	BlockHeight *uint32 `json:"block_height,omitempty"`
	BlockHash   string  `json:"block_hash,omitempty"`
	BlockTime   *uint64 `json:"block_time,omitempty"`
}

// Vin is a transaction input as reported by the Esplora API
type Vin struct {
	TxID       string   `json:"txid"`
	Vout       uint32   `json:"vout"`
	Prevout    *Vout    `json:"prevout"`
	ScriptSig  string   `json:"scriptsig"`
	Witness    []string `json:"witness"`
	Sequence   uint32   `json:"sequence"`
	IsCoinbase bool     `json:"is_coinbase"`
}

// Vout is a transaction output as reported by the Esplora API. Value is in
// satoshis
type Vout struct {
	ScriptPubKey        string `json:"scriptpubkey"`
	ScriptPubKeyType    string `json:"scriptpubkey_type,omitempty"`
	ScriptPubKeyAddress string `json:"scriptpubkey_address,omitempty"`
	Value               uint64 `json:"value"`
}

// Tx is the decoded form of a transaction as reported by the Esplora API
type Tx struct {
	TxID     string   `json:"txid"`
	Version  int32    `json:"version"`
	Locktime uint32   `json:"locktime"`
	Vin      []Vin    `json:"vin"`
	Vout     []Vout   `json:"vout"`
	Size     uint32   `json:"size"`
	Weight   uint64   `json:"weight"`
	Fee      uint64   `json:"fee"`
	Status   TxStatus `json:"status"`
}

// ToMsgTx rebuilds the consensus transaction from the decoded API form
func (t *Tx) ToMsgTx() (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(t.Version)
	tx.LockTime = t.Locktime
	for _, vin := range t.Vin {
		prevHash, err := chainhash.NewHashFromStr(vin.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidIdentifier, vin.TxID, err)
		}
		sigScript, err := hex.DecodeString(vin.ScriptSig)
		if err != nil {
			return nil, &DecodeError{Encoding: "hex", Err: err}
		}
		txIn := wire.NewTxIn(
			wire.NewOutPoint(prevHash, vin.Vout),
			sigScript,
			nil,
		)
		txIn.Sequence = vin.Sequence
		for _, item := range vin.Witness {
			witness, err := hex.DecodeString(item)
			if err != nil {
				return nil, &DecodeError{Encoding: "hex", Err: err}
			}
			txIn.Witness = append(txIn.Witness, witness)
		}
		tx.AddTxIn(txIn)
	}
	for _, vout := range t.Vout {
		pkScript, err := hex.DecodeString(vout.ScriptPubKey)
		if err != nil {
			return nil, &DecodeError{Encoding: "hex", Err: err}
		}
		tx.AddTxOut(wire.NewTxOut(int64(vout.Value), pkScript))
	}
	return tx, nil
}

// BlockStatus is the chain placement of a block
type BlockStatus struct {
	InBestChain bool   `json:"in_best_chain"`
	Height      uint32 `json:"height"`
	NextBest    string `json:"next_best,omitempty"`
}

// MerkleProof is an inclusion proof for a transaction within a block, with
// the intermediate hashes ordered from the leaf up
type MerkleProof struct {
	BlockHeight uint32   `json:"block_height"`
	Merkle      []string `json:"merkle"`
	Pos         uint32   `json:"pos"`
}

// OutputStatus is the spend status of a transaction output. The spending
// transaction fields are only populated when the output is spent
type OutputStatus struct {
	Spent  bool      `json:"spent"`
	TxID   string    `json:"txid,omitempty"`
	Vin    *uint32   `json:"vin,omitempty"`
	Status *TxStatus `json:"status,omitempty"`
}

// BlockSummary is a compact description of a recent block
type BlockSummary struct {
	ID                string `json:"id"`
	Height            uint32 `json:"height"`
	Timestamp         uint64 `json:"timestamp"`
	PreviousBlockHash string `json:"previousblockhash,omitempty"`
	MerkleRoot        string `json:"merkle_root,omitempty"`
}

// AddressTxStats are aggregate output counts and sums for an address within
// one view of the chain (confirmed or mempool)
type AddressTxStats struct {
	FundedTxoCount uint64 `json:"funded_txo_count"`
	FundedTxoSum   uint64 `json:"funded_txo_sum"`
	SpentTxoCount  uint64 `json:"spent_txo_count"`
	SpentTxoSum    uint64 `json:"spent_txo_sum"`
	TxCount        uint64 `json:"tx_count"`
}

// AddressStats is per-address information, covering both the confirmed chain
// and the mempool
type AddressStats struct {
	Address      string         `json:"address"`
	ChainStats   AddressTxStats `json:"chain_stats"`
	MempoolStats AddressTxStats `json:"mempool_stats"`
}
