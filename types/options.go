package types

import (
	"strings"

	"github.com/pkg/errors"
)

// Token identifies a denom on its source chain.
type Token struct {
	Denom string `json:"denom"`
	Chain string `json:"chain"`
}

// FundsRequired announces that an upcoming transaction needs Amount of Token,
// possibly bridged to DstChain.
type FundsRequired struct {
	Token    Token  `json:"token"`
	Amount   string `json:"amount"`
	DstChain string `json:"dst_chain"`
}

func (f FundsRequired) Validate() error {
	if strings.TrimSpace(f.Token.Denom) == "" || strings.TrimSpace(f.Token.Chain) == "" {
		return errors.New("funds required: token denom and chain must be set")
	}
	if _, err := ParseAmount(f.Amount); err != nil {
		return errors.Wrap(err, "funds required")
	}
	return nil
}

type FundsRequirement struct {
	Token  Token  `json:"token"`
	Amount string `json:"amount"`
}

// SignOptions accompany a signing intent.
type SignOptions struct {
	// MaxGas is the gas estimate of the tx to sign.
	MaxGas *uint64 `json:"maxGas,omitempty"`
	// SignMode defaults to direct.
	SignMode      SignMode           `json:"signMode,omitempty"`
	FundsRequired []FundsRequirement `json:"fundsRequired"`
}

func (o SignOptions) Mode() SignMode {
	if o.SignMode == "" {
		return SignModeDirect
	}
	return o.SignMode
}

func (o SignOptions) Validate() error {
	if err := o.Mode().Validate(); err != nil {
		return err
	}
	for _, f := range o.FundsRequired {
		req := FundsRequired{Token: f.Token, Amount: f.Amount, DstChain: f.Token.Chain}
		if err := req.Validate(); err != nil {
			return err
		}
	}
	return nil
}
