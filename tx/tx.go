package tx

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/crypto/ed25519"
	"github.com/peteruche21/tailwind-packages/crypto/secp256k1"
	cryptotypes "github.com/peteruche21/tailwind-packages/crypto/types"
	"github.com/peteruche21/tailwind-packages/types"
)

// SignWithPrivKey signs doc in the given mode with the given private key, and returns the
// corresponding StdSignature if the signing is successful.
func SignWithPrivKey(mode types.SignMode, doc types.Doc, priv cryptotypes.PrivKey, txConfig TxConfig) (types.StdSignature, error) {
	var sig types.StdSignature
	if err := mode.Validate(); err != nil {
		return sig, errors.Wrap(ErrSignModeNotSupported, err.Error())
	}

	// Generate the bytes to be signed.
	signBytes, err := txConfig.SignModeHandler().GetSignBytes(mode.Proto(), doc)
	if err != nil {
		return sig, err
	}

	// Sign those bytes
	signature, err := priv.Sign(signBytes)
	if err != nil {
		return sig, err
	}

	pubKey, err := AminoPubKey(priv.PubKey())
	if err != nil {
		return sig, err
	}
	return types.StdSignature{PubKey: pubKey, Signature: base64.StdEncoding.EncodeToString(signature)}, nil
}

// VerifySignature checks sig against the sign bytes of doc.
func VerifySignature(mode types.SignMode, doc types.Doc, sig types.StdSignature, txConfig TxConfig) (bool, error) {
	pubKey, err := PubKeyFromAmino(sig.PubKey)
	if err != nil {
		return false, err
	}
	signBytes, err := txConfig.SignModeHandler().GetSignBytes(mode.Proto(), doc)
	if err != nil {
		return false, err
	}
	raw, err := sig.SignatureBytes()
	if err != nil {
		return false, err
	}
	return pubKey.VerifySignature(signBytes, raw), nil
}

// AminoPubKey tags a public key with its amino type.
func AminoPubKey(pub cryptotypes.PubKey) (types.PubKey, error) {
	switch pub.Type() {
	case secp256k1.KeyType:
		return types.NewPubKey(types.AlgoSecp256k1, pub.Bytes())
	case ed25519.KeyType:
		return types.NewPubKey(types.AlgoEd25519, pub.Bytes())
	}
	return types.PubKey{}, errors.Errorf("unsupported key type %s", pub.Type())
}

// PubKeyFromAmino restores a verifiable public key from its amino form.
func PubKeyFromAmino(pk types.PubKey) (cryptotypes.PubKey, error) {
	algo, err := pk.Algo()
	if err != nil {
		return nil, err
	}
	bz, err := pk.Bytes()
	if err != nil {
		return nil, err
	}
	switch algo {
	case types.AlgoSecp256k1:
		return secp256k1.PubKeyFromBytes(bz)
	case types.AlgoEd25519:
		return ed25519.PubKeyFromBytes(bz)
	}
	return nil, errors.Errorf("unsupported key algo %s", algo)
}
