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
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func tipCommand(f *globalFlags) {
	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	height, err := client.GetTipHeight(ctx)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	hash, err := client.GetTipHash(ctx)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("height: %d\nhash:   %s\n", height, hash)
}

func blockCommand(f *globalFlags) {
	if len(f.flagset.Args()) < 2 {
		fmt.Printf("ERROR: you must specify a block hash\n")
		os.Exit(1)
	}
	blockHash, err := chainhash.NewHashFromStr(f.flagset.Arg(1))
	if err != nil {
		fmt.Printf("ERROR: invalid block hash: %s\n", err)
		os.Exit(1)
	}

	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	status, err := client.GetBlockStatus(ctx, blockHash)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	header, err := client.GetHeaderByHash(ctx, blockHash)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"height:      %d\nin best chain: %t\ntime:        %s\nmerkle root: %s\nprev block:  %s\n",
		status.Height,
		status.InBestChain,
		header.Timestamp.Format(time.RFC3339),
		header.MerkleRoot,
		header.PrevBlock,
	)
}

func blocksCommand(f *globalFlags) {
	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	var startHeight *uint32
	if len(f.flagset.Args()) > 1 {
		height, err := strconv.ParseUint(f.flagset.Arg(1), 10, 32)
		if err != nil {
			fmt.Printf("ERROR: invalid height: %s\n", err)
			os.Exit(1)
		}
		height32 := uint32(height)
		startHeight = &height32
	}

	blocks, err := client.GetBlocks(ctx, startHeight)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	for _, block := range blocks {
		fmt.Printf("%7d  %s\n", block.Height, block.ID)
	}
}

func feesCommand(f *globalFlags) {
	client := createClient(f)
	ctx, cancel := commandContext(f)
	defer cancel()

	estimates, err := client.GetFeeEstimates(ctx)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	targets := make([]int, 0, len(estimates))
	for target := range estimates {
		targets = append(targets, target)
	}
	sort.Ints(targets)
	for _, target := range targets {
		fmt.Printf("%4d blocks: %.2f sat/vB\n", target, estimates[target])
	}
}
