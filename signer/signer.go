// Package signer defines the contract an injected wallet satisfies once a dApp
// has discovered it: a per-chain signer that enumerates accounts, takes
// pre-signing hints and signs Amino JSON or Direct documents.
package signer

import (
	"context"

	"github.com/peteruche21/tailwind-packages/types"
)

// OfflineAminoSigner signs legacy Amino JSON documents.
type OfflineAminoSigner interface {
	// GetAccounts returns the accounts of the active chain, in wallet order.
	// It fails with ErrNotEnabled while access has not been granted.
	GetAccounts(ctx context.Context) ([]types.AccountData, error)
	// SignAmino signs doc as signerAddress. The wallet may edit doc first;
	// the response carries the document actually signed.
	SignAmino(ctx context.Context, signerAddress string, doc types.StdSignDoc) (types.AminoSignResponse, error)
}

// OfflineDirectSigner signs protobuf SignDocs.
type OfflineDirectSigner interface {
	GetAccounts(ctx context.Context) ([]types.AccountData, error)
	SignDirect(ctx context.Context, signerAddress string, doc types.SignDoc) (types.DirectSignResponse, error)
}

// OfflineSigner is a signer scoped to one chain. Declarations are optional
// hints consumed by the next sign call; they have no return value.
type OfflineSigner interface {
	OfflineAminoSigner
	OfflineDirectSigner

	DeclareFundsRequired(funds types.FundsRequired)
	DeclareMaxGasEstimate(gas uint64)
}

// Wallet is the handle a dApp obtains through discovery.
type Wallet interface {
	// GetOfflineSigner fails with ErrChainNotSupported for unknown chains.
	GetOfflineSigner(ctx context.Context, chainID string) (OfflineSigner, error)
	GetAccount(ctx context.Context, chainID, address string) (types.AccountData, error)
}
