package ed25519

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSignAndVerify(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.PubKey()
	require.Len(t, pub.Bytes(), PubKeySize)
	require.Len(t, pub.Address(), AddressSize)

	msg := []byte("sign bytes")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureSize)
	require.True(t, pub.VerifySignature(msg, sig))
	require.False(t, pub.VerifySignature([]byte("tampered"), sig))

	restored, err := Generate(priv.Bytes())
	require.NoError(t, err)
	require.True(t, restored.Equals(priv))
}

func TestDerive(t *testing.T) {
	k1, err := Derive(testMnemonic, "", "m/44'/118'/0'/0'/0'")
	require.NoError(t, err)
	k2, err := Derive(testMnemonic, "", "m/44'/118'/0'/0'/0'")
	require.NoError(t, err)
	require.True(t, k1.Equals(k2))

	_, err = Derive(testMnemonic, "", "m/44'/118'/0'/0/0")
	require.Error(t, err)
}
