// Package wallet is a keyring backed implementation of the signer contract.
// It is what the tailwindd provider serves to dApps.
package wallet

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/crypto/ed25519"
	"github.com/peteruche21/tailwind-packages/crypto/hd"
	"github.com/peteruche21/tailwind-packages/crypto/secp256k1"
	cryptotypes "github.com/peteruche21/tailwind-packages/crypto/types"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/tx"
	"github.com/peteruche21/tailwind-packages/types"
)

// DefaultEd25519HDPath is hardened throughout, as SLIP-10 requires for ed25519.
const DefaultEd25519HDPath = "m/44'/118'/0'/0'/0'"

var (
	ErrAlgoNotSupported = errors.Wrap(signer.ErrSignModeNotSupported, "key algo not supported")
	ErrDuplicateKey     = errors.New("key already exists")
	ErrInvalidChain     = errors.New("invalid chain info")
)

// ChainInfo describes a chain the wallet signs for.
type ChainInfo struct {
	ChainID      string `toml:"chain_id" json:"chain_id" yaml:"chain_id"`
	Bech32Prefix string `toml:"bech32_prefix" json:"bech32_prefix" yaml:"bech32_prefix"`
	FeeDenom     string `toml:"fee_denom" json:"fee_denom" yaml:"fee_denom"`
}

func (c ChainInfo) Validate() error {
	if strings.TrimSpace(c.ChainID) == "" {
		return errors.Wrap(ErrInvalidChain, "empty chain id")
	}
	if strings.TrimSpace(c.Bech32Prefix) == "" {
		return errors.Wrapf(ErrInvalidChain, "chain %s has no bech32 prefix", c.ChainID)
	}
	return nil
}

// Key is a named private key.
type Key struct {
	Name   string
	Algo   types.Algo
	HDPath string
	priv   cryptotypes.PrivKey
}

func (k *Key) PubKey() cryptotypes.PubKey {
	return k.priv.PubKey()
}

// Address is the bech32 address of the key on chain.
func (k *Key) Address(chain ChainInfo) (string, error) {
	return types.Bech32FromBytes(chain.Bech32Prefix, k.priv.PubKey().Address())
}

func (k *Key) accountData(chain ChainInfo) (types.AccountData, error) {
	addr, err := k.Address(chain)
	if err != nil {
		return types.AccountData{}, err
	}
	return types.AccountData{Address: addr, Algo: k.Algo, PubKey: k.priv.PubKey().Bytes()}, nil
}

type Option func(*Keyring)

func WithApprover(a Approver) Option {
	return func(kr *Keyring) {
		kr.approver = a
	}
}

func WithPreparer(p Preparer) Option {
	return func(kr *Keyring) {
		kr.preparer = p
	}
}

func WithPermissions(p *PermissionStore) Option {
	return func(kr *Keyring) {
		kr.permissions = p
	}
}

func WithTxConfig(c tx.TxConfig) Option {
	return func(kr *Keyring) {
		kr.txConfig = c
	}
}

// Keyring owns the chains, keys and grants of one wallet instance.
type Keyring struct {
	mu         sync.RWMutex
	chains     map[string]ChainInfo
	chainOrder []string
	keys       []*Key
	byName     map[string]*Key

	permissions *PermissionStore
	approver    Approver
	preparer    Preparer
	txConfig    tx.TxConfig
	locks       *AddressLock
}

// NewKeyring returns an empty keyring. Without options it rejects every sign
// request and keeps grants in memory.
func NewKeyring(opts ...Option) *Keyring {
	kr := &Keyring{
		chains:   make(map[string]ChainInfo),
		byName:   make(map[string]*Key),
		approver: RejectAll{},
		preparer: LogPreparer{},
		locks:    NewAddressLock(),
	}
	for _, opt := range opts {
		opt(kr)
	}
	if kr.permissions == nil {
		kr.permissions = NewPermissionStore("")
	}
	if kr.txConfig == nil {
		kr.txConfig = tx.DefaultTxConfig()
	}
	return kr
}

func (kr *Keyring) AddChain(info ChainInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	kr.mu.Lock()
	defer kr.mu.Unlock()
	if _, ok := kr.chains[info.ChainID]; !ok {
		kr.chainOrder = append(kr.chainOrder, info.ChainID)
	}
	kr.chains[info.ChainID] = info
	return nil
}

func (kr *Keyring) Chain(chainID string) (ChainInfo, bool) {
	kr.mu.RLock()
	defer kr.mu.RUnlock()
	info, ok := kr.chains[chainID]
	return info, ok
}

func (kr *Keyring) Chains() []ChainInfo {
	kr.mu.RLock()
	defer kr.mu.RUnlock()
	out := make([]ChainInfo, 0, len(kr.chainOrder))
	for _, id := range kr.chainOrder {
		out = append(out, kr.chains[id])
	}
	return out
}

// AddKey stores priv under name. Names and addresses are unique.
func (kr *Keyring) AddKey(name string, priv cryptotypes.PrivKey) error {
	return kr.addKey(name, "", priv)
}

// ImportMnemonic derives a key of the given algo from mnemonic. An empty
// hdPath selects the default path of the algo.
func (kr *Keyring) ImportMnemonic(name, mnemonic string, algo types.Algo, hdPath string) error {
	var (
		priv cryptotypes.PrivKey
		err  error
	)
	switch algo {
	case types.AlgoSecp256k1, "":
		if hdPath == "" {
			hdPath = hd.DefaultHDPath
		}
		priv, err = secp256k1.Derive(mnemonic, "", hdPath)
	case types.AlgoEd25519:
		if hdPath == "" {
			hdPath = DefaultEd25519HDPath
		}
		priv, err = ed25519.Derive(mnemonic, "", hdPath)
	default:
		return errors.Wrapf(ErrAlgoNotSupported, "%s", algo)
	}
	if err != nil {
		return errors.Wrapf(err, "derive key %s", name)
	}
	return kr.addKey(name, hdPath, priv)
}

// NewMnemonicKey creates a key from a fresh mnemonic and returns the mnemonic.
func (kr *Keyring) NewMnemonicKey(name string, algo types.Algo, hdPath string) (string, error) {
	mnemonic, err := hd.NewMnemonic()
	if err != nil {
		return "", err
	}
	if err = kr.ImportMnemonic(name, mnemonic, algo, hdPath); err != nil {
		return "", err
	}
	return mnemonic, nil
}

func (kr *Keyring) addKey(name, hdPath string, priv cryptotypes.PrivKey) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("key name cannot be empty")
	}
	algo, err := algoOf(priv)
	if err != nil {
		return err
	}

	kr.mu.Lock()
	defer kr.mu.Unlock()
	if _, ok := kr.byName[name]; ok {
		return errors.Wrapf(ErrDuplicateKey, "name %s", name)
	}
	for _, k := range kr.keys {
		if k.priv.PubKey().Equals(priv.PubKey()) {
			return errors.Wrapf(ErrDuplicateKey, "%s has the same key as %s", name, k.Name)
		}
	}
	key := &Key{Name: name, Algo: algo, HDPath: hdPath, priv: priv}
	kr.keys = append(kr.keys, key)
	kr.byName[name] = key
	return nil
}

func (kr *Keyring) Keys() []*Key {
	kr.mu.RLock()
	defer kr.mu.RUnlock()
	return append([]*Key(nil), kr.keys...)
}

// Accounts lists the accounts of every key on chainID, in insertion order.
// It does not check grants.
func (kr *Keyring) Accounts(chainID string) ([]types.AccountData, error) {
	chain, ok := kr.Chain(chainID)
	if !ok {
		return nil, signer.ChainNotSupported(chainID)
	}
	keys := kr.Keys()
	out := make([]types.AccountData, 0, len(keys))
	for _, k := range keys {
		acc, err := k.accountData(chain)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

func (kr *Keyring) keyByAddress(chain ChainInfo, address string) (*Key, error) {
	raw, err := types.BytesFromBech32(chain.Bech32Prefix, address)
	if err != nil {
		return nil, signer.AccountNotFound(chain.ChainID, address)
	}
	for _, k := range kr.Keys() {
		if string(k.PubKey().Address()) == string(raw) {
			return k, nil
		}
	}
	return nil, signer.AccountNotFound(chain.ChainID, address)
}

func (kr *Keyring) Permissions() *PermissionStore {
	return kr.permissions
}

func (kr *Keyring) TxConfig() tx.TxConfig {
	return kr.txConfig
}

// Session returns the wallet handle seen by a dApp served from origin.
func (kr *Keyring) Session(origin string) signer.Wallet {
	return &session{kr: kr, origin: origin}
}

func algoOf(priv cryptotypes.PrivKey) (types.Algo, error) {
	switch priv.Type() {
	case secp256k1.KeyType:
		return types.AlgoSecp256k1, nil
	case ed25519.KeyType:
		return types.AlgoEd25519, nil
	}
	return "", errors.Wrapf(ErrAlgoNotSupported, "%s", priv.Type())
}
