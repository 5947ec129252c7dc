package signer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	err := AccountNotFound("cosmoshub-4", "cosmos1abc")
	require.True(t, errors.Is(err, ErrAccountNotFound))
	require.Equal(t, ErrCodeAccountNotFound, CodeOf(err))
	require.Contains(t, err.Error(), "cosmos1abc")

	require.True(t, errors.Is(NotEnabled("x"), ErrUnauthorized))
	require.Equal(t, ErrCodeChainNotSupported, CodeOf(errors.Wrap(ChainNotSupported("x"), "outer")))
	require.Equal(t, ErrCodeInvalidSignDoc, CodeOf(errors.Wrap(ErrInvalidSignDoc, "bad")))
	require.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))

	rejected := UserRejected("x", "addr", "closed the prompt")
	require.True(t, errors.Is(rejected, ErrUserRejected))
	require.Contains(t, rejected.Error(), "closed the prompt")
}

func TestFromCode(t *testing.T) {
	for _, cs := range codeSentinels {
		err := FromCode(cs.code, "remote message")
		require.True(t, errors.Is(err, cs.err), cs.code)
		require.Equal(t, cs.code, CodeOf(err))
	}

	err := FromCode(ErrCodeInternal, "disk on fire")
	require.Equal(t, ErrCodeInternal, CodeOf(err))
	require.Contains(t, err.Error(), "disk on fire")

	err = FromCode("SOMETHING_NEW", "")
	require.Contains(t, err.Error(), "SOMETHING_NEW")
}
