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

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

func txCommand(f *globalFlags) {
	if len(f.flagset.Args()) < 2 {
		fmt.Printf("ERROR: you must specify a txid\n")
		os.Exit(1)
	}
	txid, err := chainhash.NewHashFromStr(f.flagset.Arg(1))
	if err != nil {
		fmt.Printf("ERROR: invalid txid: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	tx, err := client.GetTx(ctx, txid)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if tx == nil {
		fmt.Printf("transaction not found\n")
		os.Exit(1)
	}
	status, err := client.GetTxStatus(ctx, txid)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"txid:      %s\ninputs:    %d\noutputs:   %d\nconfirmed: %t\n",
		tx.TxHash(),
		len(tx.TxIn),
		len(tx.TxOut),
		status.Confirmed,
	)
	if status.Confirmed && status.BlockHeight != nil {
		fmt.Printf("height:    %d\n", *status.BlockHeight)
	}
}

func broadcastCommand(f *globalFlags) {
	if len(f.flagset.Args()) < 2 {
		fmt.Printf("ERROR: you must specify a hex-encoded transaction\n")
		os.Exit(1)
	}
	raw, err := hex.DecodeString(f.flagset.Arg(1))
	if err != nil {
		fmt.Printf("ERROR: invalid transaction hex: %s\n", err)
		os.Exit(1)
	}
	var tx wire.MsgTx
	if err := tx.BtcDecode(
		bytes.NewReader(raw),
		0,
		wire.WitnessEncoding,
	); err != nil {
		fmt.Printf("ERROR: invalid transaction: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	if err := client.BroadcastTx(ctx, &tx); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("broadcast %s\n", tx.TxHash())
}
