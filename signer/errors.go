package signer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/tx"
	"github.com/peteruche21/tailwind-packages/types"
)

// Sentinel errors of the signer contract.
var (
	// ErrNotEnabled indicates the wallet has not granted access to the caller.
	ErrNotEnabled = errors.New("tailwind: not enabled")

	// ErrUnauthorized is the name dApps use for ErrNotEnabled.
	ErrUnauthorized = ErrNotEnabled

	// ErrUserRejected indicates the user declined the request.
	ErrUserRejected = errors.New("tailwind: request rejected by user")

	// ErrChainNotSupported indicates the chain id is unknown to the wallet.
	ErrChainNotSupported = errors.New("tailwind: chain not supported")

	// ErrAccountNotFound indicates the address is not controlled by the signer.
	ErrAccountNotFound = errors.New("tailwind: account not found")

	// ErrSignModeNotSupported indicates the signer cannot sign in the requested mode.
	ErrSignModeNotSupported = tx.ErrSignModeNotSupported

	// ErrInvalidSignDoc indicates a malformed document.
	ErrInvalidSignDoc = types.ErrInvalidSignDoc
)

// ErrorCode identifies an error condition across process boundaries.
type ErrorCode string

const (
	ErrCodeNotEnabled           ErrorCode = "NOT_ENABLED"
	ErrCodeUserRejected         ErrorCode = "USER_REJECTED"
	ErrCodeChainNotSupported    ErrorCode = "CHAIN_NOT_SUPPORTED"
	ErrCodeAccountNotFound      ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeSignModeNotSupported ErrorCode = "SIGN_MODE_NOT_SUPPORTED"
	ErrCodeInvalidSignDoc       ErrorCode = "INVALID_SIGN_DOC"
	ErrCodeInternal             ErrorCode = "INTERNAL"
)

var codeSentinels = []struct {
	code ErrorCode
	err  error
}{
	{ErrCodeNotEnabled, ErrNotEnabled},
	{ErrCodeUserRejected, ErrUserRejected},
	{ErrCodeChainNotSupported, ErrChainNotSupported},
	{ErrCodeAccountNotFound, ErrAccountNotFound},
	{ErrCodeSignModeNotSupported, ErrSignModeNotSupported},
	{ErrCodeInvalidSignDoc, ErrInvalidSignDoc},
}

// Error carries the code of a failed request and the chain / address it concerned.
type Error struct {
	Code    ErrorCode
	ChainID string
	Address string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.ChainID != "" {
		msg += " chain=" + e.ChainID
	}
	if e.Address != "" {
		msg += " address=" + e.Address
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with the sentinel of code as its cause.
func NewError(code ErrorCode, chainID, address string) *Error {
	return &Error{Code: code, ChainID: chainID, Address: address, Err: sentinelOf(code, "")}
}

func NotEnabled(chainID string) error {
	return NewError(ErrCodeNotEnabled, chainID, "")
}

func ChainNotSupported(chainID string) error {
	return NewError(ErrCodeChainNotSupported, chainID, "")
}

func AccountNotFound(chainID, address string) error {
	return NewError(ErrCodeAccountNotFound, chainID, address)
}

func UserRejected(chainID, address, reason string) error {
	e := NewError(ErrCodeUserRejected, chainID, address)
	if reason != "" {
		e.Err = errors.Wrap(ErrUserRejected, reason)
	}
	return e
}

// CodeOf maps err to its code. Unknown errors are INTERNAL.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	for _, cs := range codeSentinels {
		if errors.Is(err, cs.err) {
			return cs.code
		}
	}
	return ErrCodeInternal
}

// FromCode rebuilds an error received over the wire so that errors.Is matches
// the sentinel of code.
func FromCode(code ErrorCode, message string) error {
	return &Error{Code: code, Err: sentinelOf(code, message)}
}

func sentinelOf(code ErrorCode, message string) error {
	for _, cs := range codeSentinels {
		if cs.code == code {
			if message == "" || message == cs.err.Error() {
				return cs.err
			}
			return errors.Wrap(cs.err, message)
		}
	}
	if message == "" {
		message = fmt.Sprintf("code %s", code)
	}
	return errors.New(message)
}
