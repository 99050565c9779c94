// Package main creates a new fungible token: mint account, creator
// holding account, initial supply, and optionally on-chain metadata
// backed by a freshly uploaded document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"solana-token-forge/internal/cli"
	"solana-token-forge/internal/orchestrator"
)

func main() {
	var cfg cli.Config
	cli.RegisterFlags(&cfg)

	name := flag.String("name", "", "Token name")
	symbol := flag.String("symbol", "", "Token symbol")
	description := flag.String("description", "", "Token description for the metadata document")
	imagePath := flag.String("image", "", "Path to the token image (optional)")
	decimals := flag.Uint("decimals", 9, "Fractional-unit scale, 0-9, fixed at creation")
	supply := flag.String("supply", "", "Initial supply as a human decimal amount")
	metadata := flag.Bool("metadata", true, "Create the on-chain metadata account")
	freeze := flag.Bool("freeze", false, "Keep a freeze authority (cannot be added later)")
	flag.Parse()

	if *supply == "" {
		fmt.Fprintln(os.Stderr, "Error: --supply is required")
		os.Exit(1)
	}
	if *metadata && (*name == "" || *symbol == "") {
		fmt.Fprintln(os.Stderr, "Error: --name and --symbol are required with metadata (use --metadata=false to skip)")
		os.Exit(1)
	}

	var image []byte
	if *imagePath != "" {
		var err error
		image, err = os.ReadFile(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	result, err := env.Orchestrator.CreateToken(ctx, orchestrator.CreateTokenRequest{
		Name:          *name,
		Symbol:        *symbol,
		Description:   *description,
		Decimals:      uint8(*decimals),
		InitialSupply: *supply,
		EnableFreeze:  *freeze,
		WithMetadata:  *metadata,
		ImageName:     filepath.Base(*imagePath),
		Image:         image,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create token failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Token created:")
	fmt.Printf("  Mint:               %s\n", result.Mint)
	fmt.Printf("  Associated account: %s\n", result.AssociatedAccount)
	fmt.Printf("  Signature:          %s\n", result.Signature)
	if result.MetadataURI != "" {
		fmt.Printf("  Document:           %s\n", result.MetadataURI)
	}
	fmt.Printf("  Operation:          %s\n", result.OperationID)
}
