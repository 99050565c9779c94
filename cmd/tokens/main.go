// Package main lists fungible mints owned by a wallet via the DAS index.
// The index is best-effort and may lag the ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"solana-token-forge/internal/cli"
)

func main() {
	var cfg cli.Config
	cli.RegisterFlags(&cfg)

	owner := flag.String("owner", "", "Owner wallet address (empty: the configured wallet)")
	flag.Parse()

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	address := *owner
	if address == "" {
		address = env.Wallet.PublicKey()
	}

	mints, err := env.Reader.ListOwnedMints(ctx, address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List owned mints failed: %v\n", err)
		os.Exit(1)
	}

	if len(mints) == 0 {
		fmt.Printf("No fungible tokens indexed for %s.\n", address)
		return
	}

	fmt.Printf("Fungible tokens owned by %s:\n", address)
	for _, m := range mints {
		label := m.Name
		if m.Symbol != "" {
			label = fmt.Sprintf("%s (%s)", m.Name, m.Symbol)
		}
		fmt.Printf("  %-44s  %s\n", m.Mint, label)
	}
}
