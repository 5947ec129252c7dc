package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/metrics"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/tx"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
)

type offlineSigner struct {
	kr         *Keyring
	origin     string
	chain      ChainInfo
	negotiator *signer.Negotiator
}

var _ signer.OfflineSigner = &offlineSigner{}

func newOfflineSigner(kr *Keyring, origin string, chain ChainInfo) *offlineSigner {
	return &offlineSigner{
		kr:         kr,
		origin:     origin,
		chain:      chain,
		negotiator: signer.NewNegotiator(),
	}
}

func (s *offlineSigner) GetAccounts(_ context.Context) ([]types.AccountData, error) {
	if !s.kr.permissions.IsEnabled(s.origin, s.chain.ChainID) {
		return nil, signer.NotEnabled(s.chain.ChainID)
	}
	return s.kr.Accounts(s.chain.ChainID)
}

func (s *offlineSigner) DeclareFundsRequired(funds types.FundsRequired) {
	if err := s.negotiator.DeclareFundsRequired(funds); err != nil {
		utils.WarnLogf("[%s] ignoring funds declaration: %v", s.origin, err)
		return
	}
	metrics.Declarations.WithLabelValues(metrics.KindFunds).Inc()
}

func (s *offlineSigner) DeclareMaxGasEstimate(gas uint64) {
	s.negotiator.DeclareMaxGasEstimate(gas)
	metrics.Declarations.WithLabelValues(metrics.KindGas).Inc()
}

func (s *offlineSigner) SignAmino(ctx context.Context, signerAddress string, doc types.StdSignDoc) (types.AminoSignResponse, error) {
	signed, sig, err := s.sign(ctx, signerAddress, doc)
	if err != nil {
		return types.AminoSignResponse{}, err
	}
	return types.AminoSignResponse{Signed: signed.(types.StdSignDoc), Signature: sig}, nil
}

func (s *offlineSigner) SignDirect(ctx context.Context, signerAddress string, doc types.SignDoc) (types.DirectSignResponse, error) {
	signed, sig, err := s.sign(ctx, signerAddress, doc)
	if err != nil {
		return types.DirectSignResponse{}, err
	}
	return types.DirectSignResponse{Signed: signed.(types.SignDoc), Signature: sig}, nil
}

type validator interface {
	Validate() error
}

func (s *offlineSigner) sign(ctx context.Context, signerAddress string, doc types.Doc) (signed types.Doc, sig types.StdSignature, err error) {
	mode := doc.SignMode()
	defer func() {
		metrics.SignRequests.WithLabelValues(string(mode), resultLabel(err)).Inc()
		if err != nil {
			utils.DebugLogf("[%s] %s sign for %s on %s failed: %v", s.origin, mode, signerAddress, s.chain.ChainID, err)
		}
	}()

	// hints belong to this call whatever its outcome
	hints := s.negotiator.Consume()

	chainID := s.chain.ChainID
	if !s.kr.permissions.IsEnabled(s.origin, chainID) {
		return nil, sig, signer.NotEnabled(chainID)
	}
	key, err := s.kr.keyByAddress(s.chain, signerAddress)
	if err != nil {
		return nil, sig, err
	}
	if err = s.checkDoc(doc); err != nil {
		return nil, sig, err
	}
	if !s.kr.txConfig.SignModeHandler().Supports(mode.Proto()) {
		return nil, sig, errors.Wrapf(signer.ErrSignModeNotSupported, "%s", mode)
	}

	// one prompt per address at a time
	if err = s.kr.locks.Acquire(ctx, signerAddress); err != nil {
		return nil, sig, err
	}
	defer s.kr.locks.Release(signerAddress)

	req := PrepareRequest{Origin: s.origin, ChainID: chainID, Address: signerAddress, Hints: hints}
	if err = s.kr.preparer.Prepare(ctx, req); err != nil {
		return nil, sig, err
	}

	approval := &ApprovalRequest{PrepareRequest: req, Mode: mode}
	switch d := doc.(type) {
	case types.StdSignDoc:
		d = d.Clone()
		if hints.MaxGas != nil {
			if d, _, err = tx.RaiseFeeGas(d, *hints.MaxGas); err != nil {
				return nil, sig, err
			}
		}
		approval.Amino = &d
	case types.SignDoc:
		d = d.Clone()
		if hints.MaxGas != nil {
			if d.AuthInfoBytes, _, err = tx.RaiseGasLimit(d.AuthInfoBytes, *hints.MaxGas); err != nil {
				return nil, sig, err
			}
		}
		approval.Direct = &d
	default:
		return nil, sig, errors.Wrapf(signer.ErrInvalidSignDoc, "unexpected document %T", doc)
	}

	if err = s.kr.approver.Approve(ctx, approval); err != nil {
		return nil, sig, err
	}

	// the approver may have edited the document
	signed = approval.Doc()
	if err = s.checkDoc(signed); err != nil {
		return nil, sig, err
	}
	sig, err = tx.SignWithPrivKey(mode, signed, key.priv, s.kr.txConfig)
	if err != nil {
		return nil, sig, err
	}
	utils.Logf("[%s] signed %s document for %s on %s", s.origin, mode, signerAddress, chainID)
	return signed, sig, nil
}

func (s *offlineSigner) checkDoc(doc types.Doc) error {
	if doc.GetChainId() != s.chain.ChainID {
		return errors.Wrapf(signer.ErrInvalidSignDoc, "document chain %q does not match signer chain %q", doc.GetChainId(), s.chain.ChainID)
	}
	if v, ok := doc.(validator); ok {
		return v.Validate()
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, signer.ErrUserRejected):
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
