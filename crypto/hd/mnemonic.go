package hd

import (
	"strings"

	"github.com/cosmos/go-bip39"
	"github.com/pkg/errors"
)

// MnemonicEntropySize is the entropy size of a 24 word mnemonic.
const MnemonicEntropySize = 256

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// NewMnemonic generates a fresh 24 word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropySize)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// Seed validates the mnemonic and returns its BIP39 seed.
func Seed(mnemonic, bip39Passphrase string) ([]byte, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, bip39Passphrase)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	return seed, nil
}
