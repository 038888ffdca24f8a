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
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/blinklabs-io/esplora"
)

type globalFlags struct {
	flagset    *flag.FlagSet
	url        string
	maxRetries int
	timeout    int
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.url,
		"url",
		"https://blockstream.info/api",
		"base URL of the Esplora server",
	)
	f.flagset.IntVar(
		&f.maxRetries,
		"retries",
		esplora.DefaultMaxRetries,
		"number of times to retry a request",
	)
	f.flagset.IntVar(
		&f.timeout,
		"timeout",
		60,
		"overall request timeout in seconds",
	)
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "tip":
			tipCommand(f)
		case "block":
			blockCommand(f)
		case "blocks":
			blocksCommand(f)
		case "tx":
			txCommand(f)
		case "fees":
			feesCommand(f)
		case "broadcast":
			broadcastCommand(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf(
			"You must specify a subcommand (tip, block, blocks, tx, fees, or broadcast)\n",
		)
		os.Exit(1)
	}
}

func createClient(f *globalFlags) *esplora.Client {
	client, err := esplora.NewClient(
		esplora.WithBaseURL(f.url),
		esplora.WithMaxRetries(f.maxRetries),
	)
	if err != nil {
		fmt.Printf("failed to create client: %s\n", err)
		os.Exit(1)
	}
	return client
}

func commandContext(f *globalFlags) (context.Context, context.CancelFunc) {
	return context.WithTimeout(
		context.Background(),
		time.Duration(f.timeout)*time.Second,
	)
}
