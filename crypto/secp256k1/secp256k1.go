package secp256k1

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck

	"github.com/peteruche21/tailwind-packages/crypto/hd"
	cryptotypes "github.com/peteruche21/tailwind-packages/crypto/types"
)

//-----------------------------------------------------------------------------------------------

const (
	// PrivKeySize defines the size of the PrivKey bytes
	PrivKeySize = 32
	// PubKeySize defines the size of the compressed PubKey bytes
	PubKeySize = 33
	// SignatureSize is the size of an R || S signature
	SignatureSize = 64
	// KeyType is the string constant for the Secp256k1 algorithm
	KeyType = "secp256k1"
)

var ErrInvalidKey = errors.New("invalid secp256k1 key")

// ----------------------------------------------------------------------------
// secp256k1 Private Key

var (
	_ cryptotypes.PrivKey = &PrivKey{}
)

type PrivKey struct {
	Key []byte
}

// Generate builds a private key from the given bytes.
func Generate(bz []byte) *PrivKey {
	bzArr := make([]byte, PrivKeySize)
	copy(bzArr, bz)

	return &PrivKey{
		Key: bzArr,
	}
}

// GenerateKey generates a new random private key.
func GenerateKey() (*PrivKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivKey{Key: priv.Serialize()}, nil
}

// Derive derives the private key for the given mnemonic and BIP44 path.
func Derive(mnemonic, bip39Passphrase, path string) (*PrivKey, error) {
	hdpath, err := hd.ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	seed, err := hd.Seed(mnemonic, bip39Passphrase)
	if err != nil {
		return nil, err
	}

	// create a BTC-utils hd-derivation key chain
	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	key := masterKey
	for _, n := range hdpath {
		key, err = key.Derive(n)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return Generate(privateKey.Serialize()), nil
}

// Bytes returns the raw private scalar.
func (privKey *PrivKey) Bytes() []byte {
	bz := make([]byte, len(privKey.Key))
	copy(bz, privKey.Key)

	return bz
}

// PubKey returns the compressed public key.
func (privKey *PrivKey) PubKey() cryptotypes.PubKey {
	priv := secp256k1.PrivKeyFromBytes(privKey.Key)
	return &PubKey{Key: priv.PubKey().SerializeCompressed()}
}

func (privKey *PrivKey) Equals(other cryptotypes.PrivKey) bool {
	return privKey.Type() == other.Type() && subtle.ConstantTimeCompare(privKey.Bytes(), other.Bytes()) == 1
}

func (privKey *PrivKey) Type() string {
	return KeyType
}

// Sign produces a 64 byte R || S signature in lower-S form over sha256(msg).
func (privKey *PrivKey) Sign(msg []byte) ([]byte, error) {
	if len(privKey.Key) != PrivKeySize {
		return nil, errors.Wrapf(ErrInvalidKey, "private key has length %d", len(privKey.Key))
	}
	priv := secp256k1.PrivKeyFromBytes(privKey.Key)
	hash := sha256.Sum256(msg)
	// compact form is recovery byte || R || S
	compact := ecdsa.SignCompact(priv, hash[:], true)
	return compact[1:], nil
}

// ----------------------------------------------------------------------------
// secp256k1 Public Key

var (
	_ cryptotypes.PubKey = &PubKey{}
)

type PubKey struct {
	Key []byte
}

func PubKeyFromBytes(bz []byte) (*PubKey, error) {
	if _, err := secp256k1.ParsePubKey(bz); err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return &PubKey{Key: append([]byte(nil), bz...)}, nil
}

// Address returns RIPEMD160(SHA256(pubkey)).
func (pubKey *PubKey) Address() []byte {
	sha := sha256.Sum256(pubKey.Key)
	hasher := ripemd160.New()
	hasher.Write(sha[:])
	return hasher.Sum(nil)
}

func (pubKey *PubKey) Bytes() []byte {
	bz := make([]byte, len(pubKey.Key))
	copy(bz, pubKey.Key)

	return bz
}

func (pubKey *PubKey) Type() string {
	return KeyType
}

func (pubKey *PubKey) Equals(other cryptotypes.PubKey) bool {
	return pubKey.Type() == other.Type() && bytes.Equal(pubKey.Bytes(), other.Bytes())
}

// VerifySignature checks a 64 byte R || S signature over sha256(msg). High-S
// signatures are rejected.
func (pubKey *PubKey) VerifySignature(msg, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubKey.Key)
	if err != nil {
		return false
	}

	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}

	hash := sha256.Sum256(msg)
	return ecdsa.NewSignature(&r, &s).Verify(hash[:], pub)
}
