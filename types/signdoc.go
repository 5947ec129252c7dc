package types

import (
	"encoding/json"
	"strconv"
	"strings"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/pkg/errors"
)

var ErrInvalidSignDoc = errors.New("invalid sign doc")

// SignMode selects the encoding a document is signed in.
type SignMode string

const (
	SignModeAmino  SignMode = "amino"
	SignModeDirect SignMode = "direct"
)

func (m SignMode) Validate() error {
	switch m {
	case SignModeAmino, SignModeDirect:
		return nil
	}
	return errors.Errorf("unknown sign mode %q", string(m))
}

// Proto returns the cosmos sign mode this mode signs with.
func (m SignMode) Proto() signingv1beta1.SignMode {
	switch m {
	case SignModeAmino:
		return signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
	case SignModeDirect:
		return signingv1beta1.SignMode_SIGN_MODE_DIRECT
	}
	return signingv1beta1.SignMode_SIGN_MODE_UNSPECIFIED
}

// Doc is a signable document in one of the two encodings.
type Doc interface {
	GetChainId() string
	SignMode() SignMode
}

var (
	_ Doc = StdSignDoc{}
	_ Doc = SignDoc{}
)

// StdSignDoc is the Amino JSON signable document.
type StdSignDoc struct {
	ChainID       string     `json:"chain_id"`
	AccountNumber string     `json:"account_number"`
	Sequence      string     `json:"sequence"`
	Fee           StdFee     `json:"fee"`
	Msgs          []AminoMsg `json:"msgs"`
	Memo          string     `json:"memo"`
}

func (d StdSignDoc) GetChainId() string { return d.ChainID }

func (d StdSignDoc) SignMode() SignMode { return SignModeAmino }

// Validate checks that every required field is present and well formed.
// An empty msgs list is accepted.
func (d StdSignDoc) Validate() error {
	if strings.TrimSpace(d.ChainID) == "" {
		return errors.Wrap(ErrInvalidSignDoc, "empty chain_id")
	}
	if _, err := strconv.ParseUint(d.AccountNumber, 10, 64); err != nil {
		return errors.Wrapf(ErrInvalidSignDoc, "account_number %q", d.AccountNumber)
	}
	if _, err := strconv.ParseUint(d.Sequence, 10, 64); err != nil {
		return errors.Wrapf(ErrInvalidSignDoc, "sequence %q", d.Sequence)
	}
	if err := d.Fee.Validate(); err != nil {
		return errors.Wrap(ErrInvalidSignDoc, err.Error())
	}
	for i, msg := range d.Msgs {
		if strings.TrimSpace(msg.Type) == "" {
			return errors.Wrapf(ErrInvalidSignDoc, "msg %d has no type", i)
		}
	}
	return nil
}

// Clone returns a deep copy, the starting point of any wallet side edit.
func (d StdSignDoc) Clone() StdSignDoc {
	out := d
	out.Fee = d.Fee.Clone()
	if d.Msgs != nil {
		out.Msgs = make([]AminoMsg, len(d.Msgs))
		for i, m := range d.Msgs {
			out.Msgs[i] = AminoMsg{Type: m.Type, Value: append(json.RawMessage(nil), m.Value...)}
		}
	}
	return out
}

// SignDoc is the protobuf (SIGN_MODE_DIRECT) signable document. BodyBytes and
// AuthInfoBytes are opaque protobuf encodings of TxBody and AuthInfo.
type SignDoc struct {
	BodyBytes     []byte `json:"bodyBytes"`
	AuthInfoBytes []byte `json:"authInfoBytes"`
	ChainID       string `json:"chainId"`
	AccountNumber uint64 `json:"accountNumber,string"`
}

func (d SignDoc) GetChainId() string { return d.ChainID }

func (d SignDoc) SignMode() SignMode { return SignModeDirect }

func (d SignDoc) Validate() error {
	if strings.TrimSpace(d.ChainID) == "" {
		return errors.Wrap(ErrInvalidSignDoc, "empty chainId")
	}
	return nil
}

func (d SignDoc) Clone() SignDoc {
	out := d
	out.BodyBytes = append([]byte(nil), d.BodyBytes...)
	out.AuthInfoBytes = append([]byte(nil), d.AuthInfoBytes...)
	return out
}
