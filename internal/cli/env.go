// Package cli wires the shared runtime environment of the command-line
// tools: RPC client, confirmer, wallet signer, metadata store, and the
// optional journal and snapshot stores.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"solana-token-forge/internal/metastore"
	"solana-token-forge/internal/orchestrator"
	"solana-token-forge/internal/reader"
	"solana-token-forge/internal/signing"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/storage/clickhouse"
	"solana-token-forge/internal/storage/memory"
	"solana-token-forge/internal/storage/migrations"
	"solana-token-forge/internal/storage/postgres"
)

// Config holds the settings shared by every tool.
type Config struct {
	RPCEndpoint   string
	DASEndpoint   string
	WSEndpoint    string
	KeypairPath   string
	PinataJWT     string
	PostgresDSN   string
	ClickhouseDSN string
	Commitment    string
	Verbose       bool
}

// RegisterFlags declares the shared flags. Environment variables provide
// the defaults so endpoints and secrets stay out of shell history.
func RegisterFlags(cfg *Config) {
	flag.StringVar(&cfg.RPCEndpoint, "rpc-endpoint", envOr("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com"), "Solana RPC HTTP endpoint")
	flag.StringVar(&cfg.DASEndpoint, "das-endpoint", os.Getenv("SOLANA_DAS_ENDPOINT"), "DAS index endpoint for asset discovery (empty: the RPC endpoint)")
	flag.StringVar(&cfg.WSEndpoint, "ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint (empty: poll for confirmations)")
	flag.StringVar(&cfg.KeypairPath, "keypair", envOr("WALLET_KEYPAIR", defaultKeypairPath()), "Path to the wallet keypair JSON file")
	flag.StringVar(&cfg.PinataJWT, "pinata-jwt", os.Getenv("PINATA_JWT"), "Pinata JWT for metadata uploads")
	flag.StringVar(&cfg.PostgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL DSN for the operation journal (empty: in-memory)")
	flag.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse DSN for supply snapshots (empty: in-memory)")
	flag.StringVar(&cfg.Commitment, "commitment", solana.CommitmentConfirmed, "Commitment level: processed, confirmed, or finalized")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
}

// Env is the assembled runtime environment.
type Env struct {
	Client       *solana.HTTPClient
	Confirmer    solana.Confirmer
	Wallet       *signing.LocalSigner
	Reader       *reader.Reader
	Journal      storage.OperationStore
	Snapshots    storage.SupplySnapshotStore
	Orchestrator *orchestrator.Orchestrator

	closers []func()
}

// Close releases connections in reverse acquisition order.
func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// Build assembles the environment from config. The caller must Close it.
func Build(ctx context.Context, cfg *Config) (*Env, error) {
	env := &Env{}

	account, err := signing.LoadKeypairFile(cfg.KeypairPath)
	if err != nil {
		return nil, fmt.Errorf("load wallet keypair: %w", err)
	}
	env.Wallet = signing.NewLocalSigner(account)

	env.Client = solana.NewHTTPClient(cfg.RPCEndpoint, solana.WithCommitment(cfg.Commitment))

	if cfg.WSEndpoint != "" {
		ws, err := solana.NewWSConfirmer(ctx, cfg.WSEndpoint, &solana.WSConfirmerConfig{Commitment: cfg.Commitment})
		if err != nil {
			return nil, fmt.Errorf("connect websocket confirmer: %w", err)
		}
		env.closers = append(env.closers, func() { ws.Close() })
		env.Confirmer = ws
	} else {
		env.Confirmer = solana.NewPollingConfirmer(env.Client, &solana.PollingConfirmerConfig{Commitment: cfg.Commitment})
	}

	dasEndpoint := cfg.DASEndpoint
	if dasEndpoint == "" {
		dasEndpoint = cfg.RPCEndpoint
	}
	env.Reader = reader.New(env.Client,
		reader.WithAssetIndex(solana.NewDASClient(dasEndpoint)))

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		env.closers = append(env.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			env.Close()
			return nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		env.Journal = postgres.NewOperationStore(pool)
	} else {
		env.Journal = memory.NewOperationStore()
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		env.closers = append(env.closers, func() { conn.Close() })
		env.Snapshots = clickhouse.NewSupplySnapshotStore(conn)
	} else {
		env.Snapshots = memory.NewSupplySnapshotStore()
	}

	var uploads *metastore.UploadCoordinator
	if cfg.PinataJWT != "" {
		uploads = metastore.NewUploadCoordinator(metastore.NewPinataClient(cfg.PinataJWT))
	}

	env.Orchestrator = orchestrator.New(orchestrator.Options{
		Ledger:    env.Client,
		Confirmer: env.Confirmer,
		Wallet:    env.Wallet,
		Uploads:   uploads,
		Journal:   env.Journal,
		Snapshots: env.Snapshots,
		Verbose:   cfg.Verbose,
	})

	return env, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}
