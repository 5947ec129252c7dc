package secp256k1

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/peteruche21/tailwind-packages/crypto/hd"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSignAndVerify(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.PubKey()
	require.Len(t, pub.Bytes(), PubKeySize)
	require.Len(t, pub.Address(), 20)

	msg := []byte(`{"chain_id":"cosmoshub-4"}`)
	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureSize)
	require.True(t, pub.VerifySignature(msg, sig))
	require.False(t, pub.VerifySignature([]byte("other"), sig))
	require.False(t, pub.VerifySignature(msg, sig[:63]))

	// RFC6979 signing is deterministic
	again, err := priv.Sign(msg)
	require.NoError(t, err)
	require.Equal(t, sig, again)
}

func TestVerifyRejectsHighS(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	msg := []byte("sign bytes")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	var s secp256k1.ModNScalar
	s.SetByteSlice(sig[32:])
	require.False(t, s.IsOverHalfOrder())
	s.Negate()
	high := s.Bytes()
	malleated := append(append([]byte(nil), sig[:32]...), high[:]...)
	require.False(t, priv.PubKey().VerifySignature(msg, malleated))
}

func TestDerive(t *testing.T) {
	k1, err := Derive(testMnemonic, "", hd.DefaultHDPath)
	require.NoError(t, err)
	k2, err := Derive(testMnemonic, "", hd.DefaultHDPath)
	require.NoError(t, err)
	require.True(t, k1.Equals(k2))

	k3, err := Derive(testMnemonic, "", "m/44'/118'/0'/0/1")
	require.NoError(t, err)
	require.False(t, k1.Equals(k3))

	_, err = Derive("abandon", "", hd.DefaultHDPath)
	require.Error(t, err)

	pub, err := PubKeyFromBytes(k1.PubKey().Bytes())
	require.NoError(t, err)
	require.True(t, pub.Equals(k1.PubKey()))
	_, err = PubKeyFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
