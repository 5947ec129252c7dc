package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCoin   = errors.New("invalid coin")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidFee    = errors.New("invalid fee")
)

// Coin is a fungible amount of a denom. Amount is a decimal integer string.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func NewCoin(denom string, amount sdkmath.Int) Coin {
	return Coin{Denom: denom, Amount: amount.String()}
}

func (c Coin) Validate() error {
	if strings.TrimSpace(c.Denom) == "" {
		return errors.Wrap(ErrInvalidCoin, "empty denom")
	}
	if _, err := ParseAmount(c.Amount); err != nil {
		return errors.Wrapf(err, "coin %s", c.Denom)
	}
	return nil
}

func (c Coin) String() string {
	return c.Amount + c.Denom
}

// ParseAmount parses a non-negative decimal integer string. Signs, base
// prefixes and digit separators are rejected.
func ParseAmount(amount string) (sdkmath.Int, error) {
	if !isDecimal(amount) {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidAmount, "%q is not a decimal integer", amount)
	}
	i, ok := sdkmath.NewIntFromString(amount)
	if !ok {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidAmount, "%q is not an integer", amount)
	}
	if i.IsNegative() {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidAmount, "%q is negative", amount)
	}
	return i, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// StdFee is the legacy (Amino) fee envelope.
type StdFee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
	// Granter is the address paying with a fee grant.
	Granter string `json:"granter,omitempty"`
	// Payer is the fee payer. The payer must have signed the transaction.
	Payer string `json:"payer,omitempty"`
}

func (f StdFee) Validate() error {
	for _, c := range f.Amount {
		if err := c.Validate(); err != nil {
			return errors.Wrap(ErrInvalidFee, err.Error())
		}
	}
	if _, err := f.GasLimit(); err != nil {
		return errors.Wrap(ErrInvalidFee, err.Error())
	}
	return nil
}

// GasLimit parses the gas field.
func (f StdFee) GasLimit() (uint64, error) {
	gas, err := ParseAmount(f.Gas)
	if err != nil {
		return 0, errors.Wrap(err, "gas")
	}
	if !gas.IsUint64() {
		return 0, errors.Wrapf(ErrInvalidAmount, "gas %s overflows uint64", f.Gas)
	}
	return gas.Uint64(), nil
}

// Clone returns a copy that shares nothing with f.
func (f StdFee) Clone() StdFee {
	out := f
	if f.Amount != nil {
		out.Amount = make([]Coin, len(f.Amount))
		copy(out.Amount, f.Amount)
	}
	return out
}
