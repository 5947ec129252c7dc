package tx

import (
	"fmt"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"google.golang.org/protobuf/proto"

	"github.com/peteruche21/tailwind-packages/types"
)

// signModeDirectHandler defines the SIGN_MODE_DIRECT SignModeHandler
type signModeDirectHandler struct{}

var _ SignModeHandler = signModeDirectHandler{}

// DefaultMode implements SignModeHandler.DefaultMode
func (signModeDirectHandler) DefaultMode() signingv1beta1.SignMode {
	return signingv1beta1.SignMode_SIGN_MODE_DIRECT
}

// Modes implements SignModeHandler.Modes
func (signModeDirectHandler) Modes() []signingv1beta1.SignMode {
	return []signingv1beta1.SignMode{signingv1beta1.SignMode_SIGN_MODE_DIRECT}
}

// GetSignBytes implements SignModeHandler.GetSignBytes
func (signModeDirectHandler) GetSignBytes(mode signingv1beta1.SignMode, doc types.Doc) ([]byte, error) {
	if mode != signingv1beta1.SignMode_SIGN_MODE_DIRECT {
		return nil, fmt.Errorf("expected %s, got %s", signingv1beta1.SignMode_SIGN_MODE_DIRECT, mode)
	}
	signDoc, ok := doc.(types.SignDoc)
	if !ok {
		return nil, fmt.Errorf("%w: expected SignDoc, got %T", types.ErrInvalidSignDoc, doc)
	}
	if err := signDoc.Validate(); err != nil {
		return nil, err
	}

	return DirectSignBytes(signDoc.BodyBytes, signDoc.AuthInfoBytes, signDoc.ChainID, signDoc.AccountNumber)
}

// DirectSignBytes returns the SIGN_MODE_DIRECT sign bytes for the provided TxBody bytes, AuthInfo bytes, chain ID
// and account number.
func DirectSignBytes(bodyBytes, authInfoBytes []byte, chainID string, accnum uint64) ([]byte, error) {
	signDoc := &txv1beta1.SignDoc{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		ChainId:       chainID,
		AccountNumber: accnum,
	}
	signDocBz, err := proto.Marshal(signDoc)
	if err != nil {
		return nil, err
	}
	return signDocBz, nil
}
