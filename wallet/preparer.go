package wallet

import (
	"context"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/utils"
)

// PrepareRequest carries the hints consumed by a sign call.
type PrepareRequest struct {
	Origin  string
	ChainID string
	Address string
	Hints   signer.Hints
}

// Preparer acts on negotiation hints before the user is asked, e.g. to
// pre-fetch or bridge funds. An error aborts signing.
type Preparer interface {
	Prepare(ctx context.Context, req PrepareRequest) error
}

type PreparerFunc func(ctx context.Context, req PrepareRequest) error

func (f PreparerFunc) Prepare(ctx context.Context, req PrepareRequest) error {
	return f(ctx, req)
}

// LogPreparer only logs the hints.
type LogPreparer struct{}

func (LogPreparer) Prepare(_ context.Context, req PrepareRequest) error {
	for _, f := range req.Hints.Funds {
		utils.Logf("[%s] %s needs %s %s from %s on %s", req.Origin, req.Address, f.Amount, f.Token.Denom, f.Token.Chain, f.DstChain)
	}
	if req.Hints.MaxGas != nil {
		utils.Logf("[%s] %s max gas estimate %d", req.Origin, req.Address, *req.Hints.MaxGas)
	}
	return nil
}
