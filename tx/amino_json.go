package tx

import (
	"bytes"
	"encoding/json"
	"fmt"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"

	"github.com/peteruche21/tailwind-packages/types"
)

// signModeLegacyAminoJSONHandler defines the SIGN_MODE_LEGACY_AMINO_JSON SignModeHandler
type signModeLegacyAminoJSONHandler struct{}

var _ SignModeHandler = signModeLegacyAminoJSONHandler{}

// DefaultMode implements SignModeHandler.DefaultMode
func (signModeLegacyAminoJSONHandler) DefaultMode() signingv1beta1.SignMode {
	return signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
}

// Modes implements SignModeHandler.Modes
func (signModeLegacyAminoJSONHandler) Modes() []signingv1beta1.SignMode {
	return []signingv1beta1.SignMode{signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON}
}

// GetSignBytes implements SignModeHandler.GetSignBytes
func (signModeLegacyAminoJSONHandler) GetSignBytes(mode signingv1beta1.SignMode, doc types.Doc) ([]byte, error) {
	if mode != signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON {
		return nil, fmt.Errorf("expected %s, got %s", signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, mode)
	}
	stdDoc, ok := doc.(types.StdSignDoc)
	if !ok {
		return nil, fmt.Errorf("%w: expected StdSignDoc, got %T", types.ErrInvalidSignDoc, doc)
	}
	if err := stdDoc.Validate(); err != nil {
		return nil, err
	}
	return AminoJSONSignBytes(stdDoc)
}

// AminoJSONSignBytes returns the canonical JSON of doc: object keys sorted,
// no insignificant whitespace, an empty msgs list encoded as [].
func AminoJSONSignBytes(doc types.StdSignDoc) ([]byte, error) {
	if doc.Msgs == nil {
		doc.Msgs = []types.AminoMsg{}
	}
	if doc.Fee.Amount == nil {
		doc.Fee.Amount = []types.Coin{}
	}
	bz, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return SortJSON(bz)
}

// SortJSON re-encodes a JSON document with its object keys sorted.
func SortJSON(toSortJSON []byte) ([]byte, error) {
	var c interface{}
	dec := json.NewDecoder(bytes.NewReader(toSortJSON))
	dec.UseNumber()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	// json.Marshal sorts map keys
	return json.Marshal(c)
}
