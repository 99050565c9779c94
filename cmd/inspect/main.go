// Package main displays the full state of a token: on-chain mint account,
// metadata record, off-chain document, and the local operation history.
// Document failures degrade the display; they never hide the on-chain state.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"solana-token-forge/internal/cli"
	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/reader"
)

func main() {
	var cfg cli.Config
	cli.RegisterFlags(&cfg)

	mint := flag.String("mint", "", "Mint address")
	history := flag.Bool("history", true, "Show the journaled operation history")
	flag.Parse()

	if *mint == "" {
		fmt.Fprintln(os.Stderr, "Error: --mint is required")
		os.Exit(1)
	}

	ctx := context.Background()
	env, err := cli.Build(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	descriptor, err := env.Reader.ReadMint(ctx, *mint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read mint failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mint %s\n", descriptor.MintAddress)
	fmt.Printf("  Supply:           %s (%d base units)\n",
		domain.FormatBaseUnits(descriptor.Supply, descriptor.Decimals), descriptor.Supply)
	fmt.Printf("  Decimals:         %d\n", descriptor.Decimals)
	fmt.Printf("  Mint authority:   %s\n", authorityLine(descriptor.MintAuthority))
	fmt.Printf("  Freeze authority: %s\n", authorityLine(descriptor.FreezeAuthority))

	record, err := env.Reader.ReadMetadata(ctx, *mint)
	switch {
	case errors.Is(err, reader.ErrMetadataAbsent):
		fmt.Println("\nNo metadata account.")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Read metadata failed: %v\n", err)
		os.Exit(1)
	default:
		fmt.Println("\nMetadata")
		fmt.Printf("  Name:             %s\n", record.Name)
		fmt.Printf("  Symbol:           %s\n", record.Symbol)
		fmt.Printf("  URI:              %s\n", record.URI)
		fmt.Printf("  Update authority: %s\n", record.UpdateAuthority)
		fmt.Printf("  Mutable:          %t\n", record.IsMutable)

		doc, err := env.Reader.ReadDocument(ctx, record.URI)
		if err != nil {
			fmt.Printf("  Document:         unavailable (%v)\n", err)
		} else {
			fmt.Println("\nDocument")
			fmt.Printf("  Description: %s\n", doc.Description)
			fmt.Printf("  Image:       %s\n", doc.Image)
		}
	}

	if *history {
		records, err := env.Journal.GetByMint(ctx, *mint)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read history failed: %v\n", err)
			os.Exit(1)
		}
		if len(records) > 0 {
			fmt.Println("\nHistory")
			for _, r := range records {
				line := fmt.Sprintf("  %s  %-15s %-9s",
					time.UnixMilli(r.StartedAt).UTC().Format(time.RFC3339), r.Kind, r.State)
				if r.State == domain.StateFailed {
					line += fmt.Sprintf("  at %s: %s", r.FailedAt, r.ErrMessage)
				} else if r.Signature != "" {
					line += "  " + r.Signature
				}
				fmt.Println(line)
			}
		}
	}
}

func authorityLine(authority *string) string {
	if authority == nil {
		return "revoked"
	}
	return *authority
}
