package signer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/types"
)

// SignRequest carries the document to sign. Only the field matching the sign mode is used.
type SignRequest struct {
	Amino  *types.StdSignDoc
	Direct *types.SignDoc
}

// SignResult holds the response of the mode that was signed.
type SignResult struct {
	Mode   types.SignMode
	Amino  *types.AminoSignResponse
	Direct *types.DirectSignResponse
}

func (r SignResult) Signature() types.StdSignature {
	if r.Amino != nil {
		return r.Amino.Signature
	}
	if r.Direct != nil {
		return r.Direct.Signature
	}
	return types.StdSignature{}
}

// Negotiate declares opts to s: one funds declaration per required token,
// bridged to chainID, then the gas estimate if set.
func Negotiate(s OfflineSigner, chainID string, opts types.SignOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	for _, f := range opts.FundsRequired {
		s.DeclareFundsRequired(types.FundsRequired{Token: f.Token, Amount: f.Amount, DstChain: chainID})
	}
	if opts.MaxGas != nil {
		s.DeclareMaxGasEstimate(*opts.MaxGas)
	}
	return nil
}

// SignWithOptions negotiates opts then signs req in opts.Mode().
func SignWithOptions(ctx context.Context, s OfflineSigner, chainID, signerAddress string, req SignRequest, opts types.SignOptions) (SignResult, error) {
	mode := opts.Mode()
	result := SignResult{Mode: mode}
	switch {
	case mode == types.SignModeAmino && req.Amino == nil:
		return result, errors.Wrap(ErrInvalidSignDoc, "amino sign mode requires a StdSignDoc")
	case mode == types.SignModeDirect && req.Direct == nil:
		return result, errors.Wrap(ErrInvalidSignDoc, "direct sign mode requires a SignDoc")
	}

	if err := Negotiate(s, chainID, opts); err != nil {
		return result, err
	}

	switch mode {
	case types.SignModeAmino:
		resp, err := s.SignAmino(ctx, signerAddress, *req.Amino)
		if err != nil {
			return result, err
		}
		result.Amino = &resp
	case types.SignModeDirect:
		resp, err := s.SignDirect(ctx, signerAddress, *req.Direct)
		if err != nil {
			return result, err
		}
		result.Direct = &resp
	default:
		return result, errors.Wrapf(ErrSignModeNotSupported, "%s", mode)
	}
	return result, nil
}
