package ed25519

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/oasisprotocol/ed25519"
	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/crypto/hd"
	cryptotypes "github.com/peteruche21/tailwind-packages/crypto/types"
)

const (
	SeedSize      = ed25519.SeedSize
	PubKeySize    = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
	// AddressSize is the number of leading sha256(pubkey) bytes used as the address
	AddressSize = 20
	KeyType     = "ed25519"
)

var ErrInvalidKey = errors.New("invalid ed25519 key")

var (
	_ cryptotypes.PrivKey = &PrivKey{}
	_ cryptotypes.PubKey  = &PubKey{}
)

// PrivKey holds the full 64 byte ed25519 private key (seed || pubkey).
type PrivKey struct {
	Key ed25519.PrivateKey
}

// Generate builds a private key from a 32 byte seed.
func Generate(seed []byte) (*PrivKey, error) {
	if len(seed) != SeedSize {
		return nil, errors.Wrapf(ErrInvalidKey, "seed has length %d", len(seed))
	}
	return &PrivKey{Key: ed25519.NewKeyFromSeed(seed)}, nil
}

func GenerateKey() (*PrivKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return &PrivKey{Key: priv}, nil
}

// Derive derives a key with SLIP-10 from the mnemonic. All path components must be hardened.
func Derive(mnemonic, bip39Passphrase, path string) (*PrivKey, error) {
	hdpath, err := hd.ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	seed, err := hd.Seed(mnemonic, bip39Passphrase)
	if err != nil {
		return nil, err
	}
	key, err := hd.DeriveEd25519(seed, hdpath)
	if err != nil {
		return nil, err
	}
	return Generate(key.Key)
}

// Bytes returns the 32 byte seed.
func (privKey *PrivKey) Bytes() []byte {
	return append([]byte(nil), privKey.Key.Seed()...)
}

func (privKey *PrivKey) PubKey() cryptotypes.PubKey {
	pub := privKey.Key.Public().(ed25519.PublicKey)
	return &PubKey{Key: append([]byte(nil), pub...)}
}

func (privKey *PrivKey) Equals(other cryptotypes.PrivKey) bool {
	return privKey.Type() == other.Type() && subtle.ConstantTimeCompare(privKey.Bytes(), other.Bytes()) == 1
}

func (privKey *PrivKey) Type() string {
	return KeyType
}

// Sign signs msg directly; ed25519 hashes internally.
func (privKey *PrivKey) Sign(msg []byte) ([]byte, error) {
	if len(privKey.Key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrInvalidKey, "private key has length %d", len(privKey.Key))
	}
	return ed25519.Sign(privKey.Key, msg), nil
}

type PubKey struct {
	Key ed25519.PublicKey
}

func PubKeyFromBytes(bz []byte) (*PubKey, error) {
	if len(bz) != PubKeySize {
		return nil, errors.Wrapf(ErrInvalidKey, "public key has length %d", len(bz))
	}
	return &PubKey{Key: append([]byte(nil), bz...)}, nil
}

// Address returns sha256(pubkey)[:20].
func (pubKey *PubKey) Address() []byte {
	sum := sha256.Sum256(pubKey.Key)
	return sum[:AddressSize]
}

func (pubKey *PubKey) Bytes() []byte {
	return append([]byte(nil), pubKey.Key...)
}

func (pubKey *PubKey) Type() string {
	return KeyType
}

func (pubKey *PubKey) Equals(other cryptotypes.PubKey) bool {
	return pubKey.Type() == other.Type() && bytes.Equal(pubKey.Bytes(), other.Bytes())
}

func (pubKey *PubKey) VerifySignature(msg, sig []byte) bool {
	if len(sig) != SignatureSize || len(pubKey.Key) != PubKeySize {
		return false
	}
	return ed25519.Verify(pubKey.Key, msg, sig)
}
