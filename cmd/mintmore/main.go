// Package main mints additional units of an existing token to a recipient
// wallet, creating the recipient's holding account when needed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"solana-token-forge/internal/cli"
	"solana-token-forge/internal/orchestrator"
)

func main() {
	var cfg cli.Config
	cli.RegisterFlags(&cfg)

	mint := flag.String("mint", "", "Mint address")
	recipient := flag.String("recipient", "", "Recipient wallet address (empty: the signing wallet)")
	amount := flag.String("amount", "", "Amount as a human decimal string, e.g. 1.5")
	flag.Parse()

	if *mint == "" || *amount == "" {
		fmt.Fprintln(os.Stderr, "Error: --mint and --amount are required")
		os.Exit(1)
	}

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	result, err := env.Orchestrator.MintMore(ctx, orchestrator.MintMoreRequest{
		Mint:      *mint,
		Recipient: *recipient,
		Amount:    *amount,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Mint more failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Minted:")
	fmt.Printf("  Base units:         %d\n", result.BaseUnits)
	fmt.Printf("  Associated account: %s", result.AssociatedAccount)
	if result.CreatedAccount {
		fmt.Print(" (created)")
	}
	fmt.Println()
	fmt.Printf("  Signature:          %s\n", result.Signature)
	fmt.Printf("  Operation:          %s\n", result.OperationID)
}
