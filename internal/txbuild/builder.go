// Package txbuild assembles token lifecycle instructions and bundles them
// into messages with explicit signer accounting. Builders are pure: no
// network calls, no clocks, no randomness.
package txbuild

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// AuthorityKind selects which mint authority SetAuthority acts on.
type AuthorityKind = token.AuthorityType

const (
	AuthorityMint   AuthorityKind = token.AuthorityTypeMintTokens
	AuthorityFreeze AuthorityKind = token.AuthorityTypeFreezeAccount
)

// MintAccountSize is the byte size of an SPL mint account.
const MintAccountSize = token.MintAccountSize

// CreateMint returns the account-creation and initialization pair for a new
// mint. rentLamports must be the rent-exempt minimum for MintAccountSize.
func CreateMint(payer, mint common.PublicKey, decimals uint8, mintAuth common.PublicKey, freezeAuth *common.PublicKey, rentLamports uint64) []types.Instruction {
	return []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     payer,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: rentLamports,
			Space:    MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   decimals,
			Mint:       mint,
			MintAuth:   mintAuth,
			FreezeAuth: freezeAuth,
		}),
	}
}

// CreateAssociatedAccount returns the instruction creating owner's
// associated token account for mint. Existence probing is the caller's
// responsibility; the instruction fails on-chain if the account exists.
func CreateAssociatedAccount(payer, owner, mint common.PublicKey) ([]types.Instruction, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("derive associated token address: %w", err)
	}
	return []types.Instruction{
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 payer,
				Owner:                  owner,
				Mint:                   mint,
				AssociatedTokenAccount: ata,
			},
		),
	}, nil
}

// MintTo returns the instruction minting amount base units to dest.
func MintTo(mint, dest, authority common.PublicKey, amount uint64) []types.Instruction {
	return []types.Instruction{
		token.MintTo(token.MintToParam{
			Mint:   mint,
			To:     dest,
			Auth:   authority,
			Amount: amount,
		}),
	}
}

// CreateMetadata returns the metadata-account creation instruction with
// neutral defaults: zero seller fee, no creators, no collection, mutable.
func CreateMetadata(mint, payer common.PublicKey, name, symbol, uri string) ([]types.Instruction, error) {
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return nil, fmt.Errorf("derive metadata address: %w", err)
	}
	return []types.Instruction{
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataPubkey,
			Mint:                    mint,
			MintAuthority:           payer,
			UpdateAuthority:         payer,
			Payer:                   payer,
			UpdateAuthorityIsSigner: true,
			IsMutable:               true,
			Data: token_metadata.DataV2{
				Name:                 name,
				Symbol:               symbol,
				Uri:                  uri,
				SellerFeeBasisPoints: 0,
				Creators:             nil,
				Collection:           nil,
				Uses:                 nil,
			},
			CollectionDetails: nil,
		}),
	}, nil
}

// UpdateMetadata returns the metadata update instruction. The full
// name/symbol/uri triple is always written; partial updates are assembled
// by the caller before building.
func UpdateMetadata(mint, updateAuthority common.PublicKey, name, symbol, uri string) ([]types.Instruction, error) {
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return nil, fmt.Errorf("derive metadata address: %w", err)
	}
	return []types.Instruction{
		token_metadata.UpdateMetadataAccountV2(token_metadata.UpdateMetadataAccountV2Param{
			MetadataAccount: metadataPubkey,
			UpdateAuthority: updateAuthority,
			Data: &token_metadata.DataV2{
				Name:                 name,
				Symbol:               symbol,
				Uri:                  uri,
				SellerFeeBasisPoints: 0,
				Creators:             nil,
				Collection:           nil,
				Uses:                 nil,
			},
		}),
	}, nil
}

// SetAuthority returns the authority transfer instruction. A nil
// newAuthority revokes: the authority is cleared and can never be restored.
func SetAuthority(mint, current common.PublicKey, kind AuthorityKind, newAuthority *common.PublicKey) []types.Instruction {
	return []types.Instruction{
		token.SetAuthority(token.SetAuthorityParam{
			Account:  mint,
			NewAuth:  newAuthority,
			AuthType: kind,
			Auth:     current,
		}),
	}
}
