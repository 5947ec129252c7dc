package types

// PubKey is a public key the wallet can verify signatures with.
type PubKey interface {
	// Address returns the raw (pre-bech32) account address.
	Address() []byte
	Bytes() []byte
	VerifySignature(msg []byte, sig []byte) bool
	Equals(PubKey) bool
	Type() string
}

// PrivKey signs sign bytes. Implementations hash msg as their algorithm requires.
type PrivKey interface {
	Bytes() []byte
	Sign(msg []byte) ([]byte, error)
	PubKey() PubKey
	Equals(PrivKey) bool
	Type() string
}
