package types

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

// MaxAddrLen is the maximum allowed length (in bytes) for an address.
const MaxAddrLen = 255

var ErrInvalidAddress = errors.New("invalid address")

// Bech32FromBytes encodes raw address bytes with the given human readable prefix.
func Bech32FromBytes(prefix string, bz []byte) (string, error) {
	if err := verifyAddressFormat(bz); err != nil {
		return "", err
	}
	converted, err := bech32.ConvertBits(bz, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "encoding bech32 failed")
	}
	return bech32.Encode(prefix, converted)
}

// BytesFromBech32 decodes a bech32 address and checks its prefix.
func BytesFromBech32(prefix, address string) ([]byte, error) {
	if len(strings.TrimSpace(address)) == 0 {
		return nil, errors.Wrap(ErrInvalidAddress, "empty address string is not allowed")
	}
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if hrp != prefix {
		return nil, errors.Wrapf(ErrInvalidAddress, "expected prefix %s, got %s", prefix, hrp)
	}
	bz, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	return bz, verifyAddressFormat(bz)
}

func verifyAddressFormat(bz []byte) error {
	if len(bz) == 0 {
		return errors.Wrap(ErrInvalidAddress, "addresses cannot be empty")
	}
	if len(bz) > MaxAddrLen {
		return errors.Wrapf(ErrInvalidAddress, "address max length is %d, got %d", MaxAddrLen, len(bz))
	}
	return nil
}
