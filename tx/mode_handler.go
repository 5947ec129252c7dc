package tx

import (
	"fmt"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
	"github.com/pkg/errors"
)

var ErrSignModeNotSupported = errors.New("sign mode not supported")

// DefaultSignModes are the sign modes a wallet signs with. The first one is the default.
var DefaultSignModes = []signingv1beta1.SignMode{
	signingv1beta1.SignMode_SIGN_MODE_DIRECT,
	signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON,
}

// makeSignModeHandler returns a SignModeHandler for the given modes
// SIGN_MODE_DIRECT supported
// SIGN_MODE_LEGACY_AMINO_JSON supported
func makeSignModeHandler(modes []signingv1beta1.SignMode) SignModeHandler {
	if len(modes) < 1 {
		panic(fmt.Errorf("no sign modes enabled"))
	}

	handlers := make([]SignModeHandler, len(modes))

	for i, mode := range modes {
		switch mode {
		case signingv1beta1.SignMode_SIGN_MODE_DIRECT:
			handlers[i] = signModeDirectHandler{}
		case signingv1beta1.SignMode_SIGN_MODE_LEGACY_AMINO_JSON:
			handlers[i] = signModeLegacyAminoJSONHandler{}
		default:
			panic(fmt.Errorf("unsupported sign mode %+v", mode))
		}
	}

	return NewSignModeHandlerMap(
		modes[0],
		handlers,
	)
}
