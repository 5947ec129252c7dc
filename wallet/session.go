package wallet

import (
	"context"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
)

type session struct {
	kr     *Keyring
	origin string
}

var _ signer.Wallet = &session{}

// GetOfflineSigner returns a fresh signer with its own negotiation state.
func (s *session) GetOfflineSigner(_ context.Context, chainID string) (signer.OfflineSigner, error) {
	chain, ok := s.kr.Chain(chainID)
	if !ok {
		return nil, signer.ChainNotSupported(chainID)
	}
	return newOfflineSigner(s.kr, s.origin, chain), nil
}

func (s *session) GetAccount(_ context.Context, chainID, address string) (types.AccountData, error) {
	chain, ok := s.kr.Chain(chainID)
	if !ok {
		return types.AccountData{}, signer.ChainNotSupported(chainID)
	}
	if !s.kr.permissions.IsEnabled(s.origin, chainID) {
		return types.AccountData{}, signer.NotEnabled(chainID)
	}
	key, err := s.kr.keyByAddress(chain, address)
	if err != nil {
		return types.AccountData{}, err
	}
	return key.accountData(chain)
}
