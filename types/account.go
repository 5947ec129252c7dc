package types

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

type Algo string

const (
	AlgoSecp256k1 Algo = "secp256k1"
	AlgoEd25519   Algo = "ed25519"
	AlgoSr25519   Algo = "sr25519"
)

func (a Algo) Validate() error {
	switch a {
	case AlgoSecp256k1, AlgoEd25519, AlgoSr25519:
		return nil
	}
	return errors.Errorf("unknown algo %q", string(a))
}

// amino type tags of single public keys
const (
	PubKeyTypeSecp256k1 = "tendermint/PubKeySecp256k1"
	PubKeyTypeEd25519   = "tendermint/PubKeyEd25519"
	PubKeyTypeSr25519   = "tendermint/PubKeySr25519"
)

// AccountData is one account the wallet controls.
type AccountData struct {
	// Address is printable, typically bech32.
	Address string `json:"address"`
	Algo    Algo   `json:"algo"`
	PubKey  []byte `json:"pubkey"`
}

// PubKey is the amino tagged form of a public key. Value is base64.
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func NewPubKey(algo Algo, key []byte) (PubKey, error) {
	var tag string
	switch algo {
	case AlgoSecp256k1:
		tag = PubKeyTypeSecp256k1
	case AlgoEd25519:
		tag = PubKeyTypeEd25519
	case AlgoSr25519:
		tag = PubKeyTypeSr25519
	default:
		return PubKey{}, errors.Errorf("unknown algo %q", string(algo))
	}
	return PubKey{Type: tag, Value: base64.StdEncoding.EncodeToString(key)}, nil
}

func (p PubKey) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Value)
}

// Algo returns the algo named by the amino tag.
func (p PubKey) Algo() (Algo, error) {
	switch p.Type {
	case PubKeyTypeSecp256k1:
		return AlgoSecp256k1, nil
	case PubKeyTypeEd25519:
		return AlgoEd25519, nil
	case PubKeyTypeSr25519:
		return AlgoSr25519, nil
	}
	return "", errors.Errorf("unknown pubkey type %q", p.Type)
}

type StdSignature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"`
}

func (s StdSignature) SignatureBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(s.Signature)
}

type AminoSignResponse struct {
	// Signed is the document that was signed. It may differ from the request
	// when the wallet edited it; this is the one to broadcast.
	Signed    StdSignDoc   `json:"signed"`
	Signature StdSignature `json:"signature"`
}

type DirectSignResponse struct {
	// Signed is the document that was signed. It may differ from the request
	// when the wallet edited it; this is the one to broadcast.
	Signed    SignDoc      `json:"signed"`
	Signature StdSignature `json:"signature"`
}
