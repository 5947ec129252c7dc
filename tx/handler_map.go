package tx

import (
	"fmt"

	signingv1beta1 "cosmossdk.io/api/cosmos/tx/signing/v1beta1"

	"github.com/peteruche21/tailwind-packages/types"
)

// SignModeHandler defines a interface to be implemented by types which will handle
// SignMode's by generating sign bytes from a signable document
type SignModeHandler interface {
	// DefaultMode is the default mode that is to be used with this handler if no
	// other mode is specified.
	DefaultMode() signingv1beta1.SignMode

	// Modes is the list of modes supporting by this handler
	Modes() []signingv1beta1.SignMode

	// GetSignBytes returns the sign bytes for the provided SignMode and document, or an error
	GetSignBytes(mode signingv1beta1.SignMode, doc types.Doc) ([]byte, error)
}

// SignModeHandlerMap is SignModeHandler that aggregates multiple SignModeHandler's into
// a single handler
type SignModeHandlerMap struct {
	defaultMode      signingv1beta1.SignMode
	modes            []signingv1beta1.SignMode
	signModeHandlers map[signingv1beta1.SignMode]SignModeHandler
}

var _ SignModeHandler = SignModeHandlerMap{}

// NewSignModeHandlerMap returns a new SignModeHandlerMap with the provided defaultMode and handlers
func NewSignModeHandlerMap(defaultMode signingv1beta1.SignMode, handlers []SignModeHandler) SignModeHandlerMap {
	handlerMap := make(map[signingv1beta1.SignMode]SignModeHandler)
	var modes []signingv1beta1.SignMode

	for _, h := range handlers {
		for _, m := range h.Modes() {
			if _, have := handlerMap[m]; have {
				panic(fmt.Errorf("duplicate sign mode handler for mode %s", m))
			}
			handlerMap[m] = h
			modes = append(modes, m)
		}
	}

	return SignModeHandlerMap{
		defaultMode:      defaultMode,
		modes:            modes,
		signModeHandlers: handlerMap,
	}
}

// DefaultMode implements SignModeHandler.DefaultMode
func (h SignModeHandlerMap) DefaultMode() signingv1beta1.SignMode {
	return h.defaultMode
}

// Modes implements SignModeHandler.Modes
func (h SignModeHandlerMap) Modes() []signingv1beta1.SignMode {
	return h.modes
}

// Supports reports whether a handler is registered for mode.
func (h SignModeHandlerMap) Supports(mode signingv1beta1.SignMode) bool {
	_, found := h.signModeHandlers[mode]
	return found
}

// GetSignBytes implements SignModeHandler.GetSignBytes
func (h SignModeHandlerMap) GetSignBytes(mode signingv1beta1.SignMode, doc types.Doc) ([]byte, error) {
	handler, found := h.signModeHandlers[mode]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSignModeNotSupported, mode.String())
	}
	return handler.GetSignBytes(mode, doc)
}
