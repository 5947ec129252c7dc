package hd

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseDerivationPath(t *testing.T) {
	path, err := ParseDerivationPath(DefaultHDPath)
	require.NoError(t, err)
	require.Equal(t, []uint32{HardenedKeyStart + 44, HardenedKeyStart + 118, HardenedKeyStart, 0, 0}, path)
	require.Equal(t, DefaultHDPath, FormatDerivationPath(path))

	path, err = ParseDerivationPath("m/44h/0")
	require.NoError(t, err)
	require.Equal(t, []uint32{HardenedKeyStart + 44, 0}, path)

	for _, bad := range []string{"", "m", "44'/118'", "m/x", "m/2147483648"} {
		_, err = ParseDerivationPath(bad)
		require.True(t, errors.Is(err, ErrInvalidPath), bad)
	}
}

func TestMnemonicSeed(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	seed1, err := Seed(mnemonic, "")
	require.NoError(t, err)
	require.Len(t, seed1, 64)

	seed2, err := Seed(mnemonic, "passphrase")
	require.NoError(t, err)
	require.NotEqual(t, seed1, seed2)

	_, err = Seed("not a valid mnemonic", "")
	require.True(t, errors.Is(err, ErrInvalidMnemonic))
}

func TestSlip10Ed25519Master(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	master := Ed25519MasterKey(seed)
	require.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(master.Key))
	require.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbda6be5e76ae32fcb6d1cfb45e", hex.EncodeToString(master.ChainCode))

	_, err := master.Child(0)
	require.True(t, errors.Is(err, ErrNonHardenedChild))

	child, err := DeriveEd25519(seed, []uint32{HardenedKeyStart})
	require.NoError(t, err)
	again, err := master.Child(HardenedKeyStart)
	require.NoError(t, err)
	require.Equal(t, child.Key, again.Key)
	require.Equal(t, uint8(1), child.Depth)
}
