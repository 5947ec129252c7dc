package tx

import (
	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"
)

type (
	// TxConfig gives signers access to the sign mode handlers they are allowed to use.
	TxConfig interface {
		SignModeHandler() SignModeHandlerMap
	}

	config struct {
		handler SignModeHandlerMap
	}
)

// NewTxConfig returns a TxConfig handling the given sign modes. The first mode is the default.
func NewTxConfig(enabledSignModes []signingv1beta1.SignMode) TxConfig {
	return &config{
		handler: makeSignModeHandler(enabledSignModes).(SignModeHandlerMap),
	}
}

// DefaultTxConfig enables SIGN_MODE_DIRECT (default) and SIGN_MODE_LEGACY_AMINO_JSON.
func DefaultTxConfig() TxConfig {
	return NewTxConfig(DefaultSignModes)
}

func (g config) SignModeHandler() SignModeHandlerMap {
	return g.handler
}
