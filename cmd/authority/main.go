// Package main transfers or revokes a token's mint or freeze authority.
// Revocation is permanent, so the tool refuses to act without --yes.
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
	newAuthority := flag.String("new-authority", "", "Transfer target address (empty: revoke)")
	freeze := flag.Bool("freeze", false, "Act on the freeze authority instead of the mint authority")
	yes := flag.Bool("yes", false, "Confirm the change; required because revocation is irreversible")
	flag.Parse()

	if *mint == "" {
		fmt.Fprintln(os.Stderr, "Error: --mint is required")
		os.Exit(1)
	}
	if !*yes {
		if *newAuthority == "" {
			fmt.Fprintln(os.Stderr, "Refusing to revoke: once revoked the authority can never be restored and the supply is frozen forever. Re-run with --yes to proceed.")
		} else {
			fmt.Fprintln(os.Stderr, "Refusing to transfer authority without --yes.")
		}
		os.Exit(1)
	}

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	result, err := env.Orchestrator.SetMintAuthority(ctx, orchestrator.SetAuthorityRequest{
		Mint:         *mint,
		Freeze:       *freeze,
		NewAuthority: *newAuthority,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Set authority failed: %v\n", err)
		os.Exit(1)
	}

	label := "mint"
	if *freeze {
		label = "freeze"
	}
	if result.Revoked {
		fmt.Printf("Revoked the %s authority of %s.\n", label, *mint)
	} else {
		fmt.Printf("Transferred the %s authority of %s to %s.\n", label, *mint, *newAuthority)
	}
	fmt.Printf("  Signature: %s\n", result.Signature)
	fmt.Printf("  Operation: %s\n", result.OperationID)
}
