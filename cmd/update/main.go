// Package main updates a token's metadata. Unset flags keep the current
// values: the full document is rebuilt from the last read, re-uploaded, and
// the full on-chain triple rewritten.
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

	mint := flag.String("mint", "", "Mint address")
	name := flag.String("name", "", "New token name")
	symbol := flag.String("symbol", "", "New token symbol")
	description := flag.String("description", "", "New token description")
	imagePath := flag.String("image", "", "Path to a replacement image")
	flag.Parse()

	if *mint == "" {
		fmt.Fprintln(os.Stderr, "Error: --mint is required")
		os.Exit(1)
	}

	// Only flags the user actually set become part of the edit, so
	// --description "" clears the description while omitting it keeps it.
	var edit orchestrator.MetadataEdit
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			edit.Name = name
		case "symbol":
			edit.Symbol = symbol
		case "description":
			edit.Description = description
		}
	})

	var image []byte
	if *imagePath != "" {
		var err error
		image, err = os.ReadFile(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
			os.Exit(1)
		}
	}

	if edit.Name == nil && edit.Symbol == nil && edit.Description == nil && len(image) == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to update")
		os.Exit(1)
	}

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	result, err := env.Orchestrator.UpdateMetadata(ctx, orchestrator.UpdateMetadataRequest{
		Mint:      *mint,
		Edit:      edit,
		ImageName: filepath.Base(*imagePath),
		Image:     image,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Update metadata failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Metadata updated:")
	fmt.Printf("  Name:      %s\n", result.Name)
	fmt.Printf("  Symbol:    %s\n", result.Symbol)
	fmt.Printf("  Document:  %s\n", result.URI)
	fmt.Printf("  Signature: %s\n", result.Signature)
	fmt.Printf("  Operation: %s\n", result.OperationID)
}
