package hd

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ed25519CurvePhrase = []byte("ed25519 seed")

	ErrNonHardenedChild = errors.New("ed25519 does not support non hardened children")
)

// ExtendedKey is a SLIP-10 node: a 32 byte secret and its chain code.
type ExtendedKey struct {
	Key       []byte
	ChainCode []byte
	Depth     uint8
}

// Ed25519MasterKey derives the SLIP-10 master node for the ed25519 curve.
func Ed25519MasterKey(seed []byte) *ExtendedKey {
	// I = HMAC-SHA512(Key = "ed25519 seed", Data = S)
	hmac512 := hmac.New(sha512.New, ed25519CurvePhrase)
	hmac512.Write(seed)
	lr := hmac512.Sum(nil)

	return &ExtendedKey{Key: lr[:32], ChainCode: lr[32:]}
}

// Child derives the hardened child i. i must already include HardenedKeyStart.
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	if i < HardenedKeyStart {
		return nil, ErrNonHardenedChild
	}
	if k.Depth == ^uint8(0) {
		return nil, errors.New("cannot derive a key with more than 255 indices in its path")
	}

	// 0x00 || ser256(parentKey) || ser32(i)
	data := make([]byte, 1+32+4)
	copy(data[1:], k.Key)
	binary.BigEndian.PutUint32(data[33:], i)

	hmac512 := hmac.New(sha512.New, k.ChainCode)
	hmac512.Write(data)
	ilr := hmac512.Sum(nil)

	return &ExtendedKey{Key: ilr[:32], ChainCode: ilr[32:], Depth: k.Depth + 1}, nil
}

// DeriveEd25519 walks path from the seed's master node. Every component must be hardened.
func DeriveEd25519(seed []byte, path []uint32) (*ExtendedKey, error) {
	key := Ed25519MasterKey(seed)
	var err error
	for _, n := range path {
		key, err = key.Child(n)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}
