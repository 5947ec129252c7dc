// Package provider bridges a wallet to dApps over a local websocket. The
// server exposes a keyring; the client is a signer.Wallet speaking the same
// JSON protocol.
package provider

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
)

const (
	MethodGetOfflineSigner      = "getOfflineSigner"
	MethodGetAccount            = "getAccount"
	MethodGetAccounts           = "getAccounts"
	MethodSignAmino             = "signAmino"
	MethodSignDirect            = "signDirect"
	MethodDeclareFundsRequired  = "declareFundsRequired"
	MethodDeclareMaxGasEstimate = "declareMaxGasEstimate"
)

// ErrUnknownSigner is returned for a signer id the connection never handed out.
var ErrUnknownSigner = errors.New("provider: unknown signer")

// Request is a call, or a notification when ID is empty. Notifications get no response.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers the request with the same ID. Event frames carry only Event.
type Response struct {
	ID     string          `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
}

type RPCError struct {
	Code    signer.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func (e *RPCError) Err() error {
	return signer.FromCode(e.Code, e.Message)
}

func newRPCError(err error) *RPCError {
	return &RPCError{Code: signer.CodeOf(err), Message: err.Error()}
}

type chainParams struct {
	ChainID string `json:"chainId"`
}

// signerHandle names one server side signer. Negotiation hints sent with a
// SignerID only reach that signer.
type signerHandle struct {
	ChainID  string `json:"chainId"`
	SignerID string `json:"signerId"`
}

type accountParams struct {
	ChainID string `json:"chainId"`
	Address string `json:"address"`
}

type signerParams struct {
	SignerID string `json:"signerId"`
}

type signAminoParams struct {
	SignerID      string           `json:"signerId"`
	SignerAddress string           `json:"signerAddress"`
	SignDoc       types.StdSignDoc `json:"signDoc"`
}

type signDirectParams struct {
	SignerID      string        `json:"signerId"`
	SignerAddress string        `json:"signerAddress"`
	SignDoc       types.SignDoc `json:"signDoc"`
}

type fundsParams struct {
	SignerID string `json:"signerId"`
	types.FundsRequired
}

type gasParams struct {
	SignerID string `json:"signerId"`
	Gas      uint64 `json:"gas"`
}
