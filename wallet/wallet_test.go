package wallet

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/tx"
	"github.com/peteruche21/tailwind-packages/types"
)

const (
	testOrigin   = "https://app.example"
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func newTestKeyring(t *testing.T, opts ...Option) *Keyring {
	kr := NewKeyring(append([]Option{WithApprover(AutoApprove{})}, opts...)...)
	require.NoError(t, kr.AddChain(ChainInfo{ChainID: "cosmoshub-4", Bech32Prefix: "cosmos", FeeDenom: "uatom"}))
	require.NoError(t, kr.AddChain(ChainInfo{ChainID: "osmosis-1", Bech32Prefix: "osmo", FeeDenom: "uosmo"}))
	require.NoError(t, kr.ImportMnemonic("main", testMnemonic, types.AlgoSecp256k1, ""))
	return kr
}

func enabledSigner(t *testing.T, kr *Keyring, chainID string) (signer.OfflineSigner, types.AccountData) {
	require.NoError(t, kr.Permissions().Enable(testOrigin, chainID))
	s, err := kr.Session(testOrigin).GetOfflineSigner(context.Background(), chainID)
	require.NoError(t, err)
	accounts, err := s.GetAccounts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, accounts)
	return s, accounts[0]
}

func aminoDoc(chainID string) types.StdSignDoc {
	send, _ := types.NewAminoMsg(types.MsgSendType, types.MsgSend{
		FromAddress: "cosmos1from",
		ToAddress:   "cosmos1to",
		Amount:      []types.Coin{{Denom: "uatom", Amount: "10"}},
	})
	return types.StdSignDoc{
		ChainID:       chainID,
		AccountNumber: "1",
		Sequence:      "3",
		Fee:           types.StdFee{Amount: []types.Coin{{Denom: "uatom", Amount: "500"}}, Gas: "100000"},
		Msgs:          []types.AminoMsg{send},
		Memo:          "memo",
	}
}

func directDoc(t *testing.T, chainID string, gas uint64) types.SignDoc {
	authInfo, err := proto.Marshal(&txv1beta1.AuthInfo{Fee: &txv1beta1.Fee{GasLimit: gas}})
	require.NoError(t, err)
	body, err := proto.Marshal(&txv1beta1.TxBody{Memo: "direct"})
	require.NoError(t, err)
	return types.SignDoc{BodyBytes: body, AuthInfoBytes: authInfo, ChainID: chainID, AccountNumber: 9}
}

func TestGetAccountsRequiresGrant(t *testing.T) {
	kr := newTestKeyring(t)
	s, err := kr.Session(testOrigin).GetOfflineSigner(context.Background(), "cosmoshub-4")
	require.NoError(t, err)

	_, err = s.GetAccounts(context.Background())
	require.True(t, errors.Is(err, signer.ErrNotEnabled))

	require.NoError(t, kr.Permissions().Enable(testOrigin, "cosmoshub-4"))
	accounts, err := s.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Contains(t, accounts[0].Address, "cosmos1")
	require.Equal(t, types.AlgoSecp256k1, accounts[0].Algo)
	require.Len(t, accounts[0].PubKey, 33)

	// grants are per origin and chain
	other, err := kr.Session("https://evil.example").GetOfflineSigner(context.Background(), "cosmoshub-4")
	require.NoError(t, err)
	_, err = other.GetAccounts(context.Background())
	require.True(t, errors.Is(err, signer.ErrNotEnabled))
	osmo, err := kr.Session(testOrigin).GetOfflineSigner(context.Background(), "osmosis-1")
	require.NoError(t, err)
	_, err = osmo.GetAccounts(context.Background())
	require.True(t, errors.Is(err, signer.ErrNotEnabled))
}

func TestUnknownChain(t *testing.T) {
	kr := newTestKeyring(t)
	_, err := kr.Session(testOrigin).GetOfflineSigner(context.Background(), "juno-1")
	require.True(t, errors.Is(err, signer.ErrChainNotSupported))
	_, err = kr.Session(testOrigin).GetAccount(context.Background(), "juno-1", "juno1abc")
	require.True(t, errors.Is(err, signer.ErrChainNotSupported))
}

func TestGetAccount(t *testing.T) {
	kr := newTestKeyring(t)
	_, acc := enabledSigner(t, kr, "osmosis-1")
	require.Contains(t, acc.Address, "osmo1")

	got, err := kr.Session(testOrigin).GetAccount(context.Background(), "osmosis-1", acc.Address)
	require.NoError(t, err)
	require.Equal(t, acc, got)

	_, err = kr.Session(testOrigin).GetAccount(context.Background(), "osmosis-1", "osmo1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqnrql8a")
	require.True(t, errors.Is(err, signer.ErrAccountNotFound))
}

func TestSignAminoReturnsWellFormedDoc(t *testing.T) {
	kr := newTestKeyring(t, WithApprover(ApproverFunc(func(_ context.Context, req *ApprovalRequest) error {
		req.Amino.Memo = "edited by wallet"
		return nil
	})))
	s, acc := enabledSigner(t, kr, "cosmoshub-4")

	doc := aminoDoc("cosmoshub-4")
	resp, err := s.SignAmino(context.Background(), acc.Address, doc)
	require.NoError(t, err)
	require.NoError(t, resp.Signed.Validate())
	require.Equal(t, "edited by wallet", resp.Signed.Memo)
	require.Equal(t, "memo", doc.Memo)

	ok, err := tx.VerifySignature(types.SignModeAmino, resp.Signed, resp.Signature, kr.TxConfig())
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = tx.VerifySignature(types.SignModeAmino, doc, resp.Signature, kr.TxConfig())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignAminoUnknownAddress(t *testing.T) {
	kr := newTestKeyring(t)
	s, _ := enabledSigner(t, kr, "cosmoshub-4")

	other := NewKeyring()
	require.NoError(t, other.AddChain(ChainInfo{ChainID: "cosmoshub-4", Bech32Prefix: "cosmos"}))
	_, err := other.NewMnemonicKey("stranger", types.AlgoSecp256k1, "")
	require.NoError(t, err)
	strangers, err := other.Accounts("cosmoshub-4")
	require.NoError(t, err)

	_, err = s.SignAmino(context.Background(), strangers[0].Address, aminoDoc("cosmoshub-4"))
	require.True(t, errors.Is(err, signer.ErrAccountNotFound))
	_, err = s.SignAmino(context.Background(), "not-bech32", aminoDoc("cosmoshub-4"))
	require.True(t, errors.Is(err, signer.ErrAccountNotFound))
}

func TestSignDirectGasDeclarationIdempotent(t *testing.T) {
	sign := func(declarations int) types.DirectSignResponse {
		kr := newTestKeyring(t)
		s, acc := enabledSigner(t, kr, "osmosis-1")
		for i := 0; i < declarations; i++ {
			s.DeclareMaxGasEstimate(250000)
		}
		resp, err := s.SignDirect(context.Background(), acc.Address, directDoc(t, "osmosis-1", 100000))
		require.NoError(t, err)
		return resp
	}

	once, twice := sign(1), sign(2)
	require.Equal(t, once, twice)
	gas, err := tx.GasLimit(once.Signed.AuthInfoBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(250000), gas)
}

func TestNegotiateThenSignDirect(t *testing.T) {
	var prepared PrepareRequest
	kr := newTestKeyring(t, WithPreparer(PreparerFunc(func(_ context.Context, req PrepareRequest) error {
		prepared = req
		return nil
	})))
	s, acc := enabledSigner(t, kr, "osmosis-1")

	s.DeclareFundsRequired(types.FundsRequired{
		Token:    types.Token{Denom: "uatom", Chain: "cosmoshub-4"},
		Amount:   "1000000",
		DstChain: "osmosis-1",
	})
	s.DeclareMaxGasEstimate(200000)

	resp, err := s.SignDirect(context.Background(), acc.Address, directDoc(t, "osmosis-1", 150000))
	require.NoError(t, err)
	require.Equal(t, base64.StdEncoding.EncodeToString(acc.PubKey), resp.Signature.PubKey.Value)
	require.Equal(t, types.PubKeyTypeSecp256k1, resp.Signature.PubKey.Type)

	ok, err := tx.VerifySignature(types.SignModeDirect, resp.Signed, resp.Signature, kr.TxConfig())
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, prepared.Hints.Funds, 1)
	require.Equal(t, "1000000", prepared.Hints.Funds[0].Amount)
	require.Equal(t, uint64(200000), *prepared.Hints.MaxGas)

	// hints are consumed by the sign call
	_, err = s.SignDirect(context.Background(), acc.Address, directDoc(t, "osmosis-1", 150000))
	require.NoError(t, err)
	require.True(t, prepared.Hints.Empty())
}

func TestFailedSignConsumesHints(t *testing.T) {
	kr := newTestKeyring(t)
	s, acc := enabledSigner(t, kr, "osmosis-1")
	stranger, err := types.Bech32FromBytes("osmo", make([]byte, 20))
	require.NoError(t, err)

	s.DeclareMaxGasEstimate(900000)
	_, err = s.SignDirect(context.Background(), stranger, directDoc(t, "osmosis-1", 100000))
	require.True(t, errors.Is(err, signer.ErrAccountNotFound))

	resp, err := s.SignDirect(context.Background(), acc.Address, directDoc(t, "osmosis-1", 100000))
	require.NoError(t, err)
	gas, err := tx.GasLimit(resp.Signed.AuthInfoBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(100000), gas)

	s.DeclareMaxGasEstimate(900000)
	bad := directDoc(t, "osmosis-1", 100000)
	bad.ChainID = "cosmoshub-4"
	_, err = s.SignDirect(context.Background(), acc.Address, bad)
	require.True(t, errors.Is(err, signer.ErrInvalidSignDoc))

	resp, err = s.SignDirect(context.Background(), acc.Address, directDoc(t, "osmosis-1", 100000))
	require.NoError(t, err)
	gas, err = tx.GasLimit(resp.Signed.AuthInfoBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(100000), gas)
}

func TestSignWithoutDeclarations(t *testing.T) {
	kr := newTestKeyring(t)
	s, acc := enabledSigner(t, kr, "osmosis-1")
	doc := directDoc(t, "osmosis-1", 100000)
	resp, err := s.SignDirect(context.Background(), acc.Address, doc)
	require.NoError(t, err)
	require.Equal(t, doc, resp.Signed)
}

func TestSignRejections(t *testing.T) {
	kr := newTestKeyring(t, WithApprover(RejectAll{}))
	s, acc := enabledSigner(t, kr, "cosmoshub-4")
	_, err := s.SignAmino(context.Background(), acc.Address, aminoDoc("cosmoshub-4"))
	require.True(t, errors.Is(err, signer.ErrUserRejected))

	kr = newTestKeyring(t)
	s, acc = enabledSigner(t, kr, "cosmoshub-4")
	_, err = s.SignAmino(context.Background(), acc.Address, aminoDoc("osmosis-1"))
	require.True(t, errors.Is(err, signer.ErrInvalidSignDoc))

	bad := aminoDoc("cosmoshub-4")
	bad.Sequence = "x"
	_, err = s.SignAmino(context.Background(), acc.Address, bad)
	require.True(t, errors.Is(err, signer.ErrInvalidSignDoc))

	require.NoError(t, kr.Permissions().Disable(testOrigin, "cosmoshub-4"))
	_, err = s.SignAmino(context.Background(), acc.Address, aminoDoc("cosmoshub-4"))
	require.True(t, errors.Is(err, signer.ErrNotEnabled))
}

func TestSignModeDisabled(t *testing.T) {
	kr := newTestKeyring(t, WithTxConfig(tx.NewTxConfig(tx.DefaultSignModes[:1])))
	s, acc := enabledSigner(t, kr, "cosmoshub-4")
	_, err := s.SignAmino(context.Background(), acc.Address, aminoDoc("cosmoshub-4"))
	require.True(t, errors.Is(err, signer.ErrSignModeNotSupported))
}

func TestSigningSerializedPerAddress(t *testing.T) {
	var inFlight, maxInFlight int32
	kr := newTestKeyring(t, WithApprover(ApproverFunc(func(context.Context, *ApprovalRequest) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})))
	s, acc := enabledSigner(t, kr, "cosmoshub-4")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.SignAmino(context.Background(), acc.Address, aminoDoc("cosmoshub-4"))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestKeyringKeys(t *testing.T) {
	kr := newTestKeyring(t)
	require.True(t, errors.Is(kr.ImportMnemonic("main", testMnemonic, types.AlgoEd25519, ""), ErrDuplicateKey))
	require.True(t, errors.Is(kr.ImportMnemonic("again", testMnemonic, types.AlgoSecp256k1, ""), ErrDuplicateKey))
	require.True(t, errors.Is(kr.ImportMnemonic("sr", testMnemonic, types.AlgoSr25519, ""), ErrAlgoNotSupported))
	require.True(t, errors.Is(kr.ImportMnemonic("sr", testMnemonic, types.AlgoSr25519, ""), signer.ErrSignModeNotSupported))

	require.NoError(t, kr.ImportMnemonic("ed", testMnemonic, types.AlgoEd25519, ""))
	accounts, err := kr.Accounts("cosmoshub-4")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, types.AlgoSecp256k1, accounts[0].Algo)
	require.Equal(t, types.AlgoEd25519, accounts[1].Algo)

	require.Error(t, kr.AddChain(ChainInfo{ChainID: "x"}))
	require.Len(t, kr.Chains(), 2)
}

func TestEd25519Signing(t *testing.T) {
	kr := NewKeyring(WithApprover(AutoApprove{}))
	require.NoError(t, kr.AddChain(ChainInfo{ChainID: "cosmoshub-4", Bech32Prefix: "cosmos"}))
	require.NoError(t, kr.ImportMnemonic("ed", testMnemonic, types.AlgoEd25519, ""))
	s, acc := enabledSigner(t, kr, "cosmoshub-4")

	resp, err := s.SignAmino(context.Background(), acc.Address, aminoDoc("cosmoshub-4"))
	require.NoError(t, err)
	require.Equal(t, types.PubKeyTypeEd25519, resp.Signature.PubKey.Type)
	ok, err := tx.VerifySignature(types.SignModeAmino, resp.Signed, resp.Signature, kr.TxConfig())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPermissionStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")
	ps := NewPermissionStore(path)
	require.NoError(t, ps.Load())
	require.Empty(t, ps.List())

	require.NoError(t, ps.Enable("https://b.example", "osmosis-1"))
	require.NoError(t, ps.Enable("https://a.example", "cosmoshub-4"))
	require.NoError(t, ps.Enable("https://a.example", "cosmoshub-4"))

	reloaded := NewPermissionStore(path)
	require.NoError(t, reloaded.Load())
	require.Equal(t, []Grant{
		{Origin: "https://a.example", ChainID: "cosmoshub-4"},
		{Origin: "https://b.example", ChainID: "osmosis-1"},
	}, reloaded.List())
	require.True(t, reloaded.IsEnabled("https://b.example", "osmosis-1"))

	require.NoError(t, reloaded.Disable("https://b.example", "osmosis-1"))
	again := NewPermissionStore(path)
	require.NoError(t, again.Load())
	require.Len(t, again.List(), 1)
}

func TestStaticGrantsAreNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")
	ps := NewPermissionStore(path)
	require.NoError(t, ps.Load())
	ps.SetStatic([]Grant{{Origin: "https://a.example", ChainID: "cosmoshub-4"}})
	require.True(t, ps.IsEnabled("https://a.example", "cosmoshub-4"))

	require.NoError(t, ps.Enable("https://b.example", "osmosis-1"))
	require.Len(t, ps.List(), 2)
	require.NoError(t, ps.Disable("https://a.example", "cosmoshub-4"))
	require.True(t, ps.IsEnabled("https://a.example", "cosmoshub-4"))

	reloaded := NewPermissionStore(path)
	require.NoError(t, reloaded.Load())
	require.False(t, reloaded.IsEnabled("https://a.example", "cosmoshub-4"))
	require.Equal(t, []Grant{{Origin: "https://b.example", ChainID: "osmosis-1"}}, reloaded.List())

	ps.SetStatic(nil)
	require.False(t, ps.IsEnabled("https://a.example", "cosmoshub-4"))
}

func TestPermissionChangeRolledBackOnWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	ps := NewPermissionStore(filepath.Join(blocker, "permissions.json"))
	require.Error(t, ps.Enable(testOrigin, "cosmoshub-4"))
	require.False(t, ps.IsEnabled(testOrigin, "cosmoshub-4"))
	require.Empty(t, ps.List())

	path := filepath.Join(dir, "permissions.json")
	ps = NewPermissionStore(path)
	require.NoError(t, ps.Enable(testOrigin, "cosmoshub-4"))
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o700))
	require.Error(t, ps.Disable(testOrigin, "cosmoshub-4"))
	require.True(t, ps.IsEnabled(testOrigin, "cosmoshub-4"))
}

type fakePrompter struct {
	answer bool
	asked  int
}

func (p *fakePrompter) Confirm(string, bool) (bool, error) {
	p.asked++
	return p.answer, nil
}

func TestConsoleApprover(t *testing.T) {
	doc := aminoDoc("cosmoshub-4")
	req := &ApprovalRequest{PrepareRequest: PrepareRequest{Origin: testOrigin, ChainID: "cosmoshub-4", Address: "cosmos1abc"}, Mode: types.SignModeAmino, Amino: &doc}

	yes := &fakePrompter{answer: true}
	require.NoError(t, (&ConsoleApprover{Prompter: yes}).Approve(context.Background(), req))
	require.Equal(t, 1, yes.asked)

	no := &fakePrompter{}
	err := (&ConsoleApprover{Prompter: no}).Approve(context.Background(), req)
	require.True(t, errors.Is(err, signer.ErrUserRejected))

	summary := req.Summary()
	require.Contains(t, summary, "cosmos-sdk/MsgSend cosmos1from -> cosmos1to: 10uatom")
	require.Contains(t, summary, "fee 500uatom gas 100000")
}

type blockingPrompter struct {
	asked   int32
	release chan bool
}

func (p *blockingPrompter) Confirm(string, bool) (bool, error) {
	atomic.AddInt32(&p.asked, 1)
	return <-p.release, nil
}

func TestConsoleApproverCancelledPrompt(t *testing.T) {
	doc := aminoDoc("cosmoshub-4")
	req := &ApprovalRequest{PrepareRequest: PrepareRequest{Origin: testOrigin, ChainID: "cosmoshub-4", Address: "cosmos1abc"}, Mode: types.SignModeAmino, Amino: &doc}
	p := &blockingPrompter{release: make(chan bool)}
	a := &ConsoleApprover{Prompter: p}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.True(t, errors.Is(a.Approve(ctx, req), context.DeadlineExceeded))

	// the stale prompt still owns the terminal
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	require.True(t, errors.Is(a.Approve(ctx2, req), context.DeadlineExceeded))
	require.Equal(t, int32(1), atomic.LoadInt32(&p.asked))

	p.release <- true
	result := make(chan error, 1)
	go func() { result <- a.Approve(context.Background(), req) }()
	p.release <- false
	require.True(t, errors.Is(<-result, signer.ErrUserRejected))
	require.Equal(t, int32(2), atomic.LoadInt32(&p.asked))
}

func TestAddressLockHonoursContext(t *testing.T) {
	l := NewAddressLock()
	require.NoError(t, l.Acquire(context.Background(), "a"))
	require.NoError(t, l.Acquire(context.Background(), "b"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.True(t, errors.Is(l.Acquire(ctx, "a"), context.DeadlineExceeded))

	l.Release("a")
	require.NoError(t, l.Acquire(context.Background(), "a"))
	l.Release("a")
	l.Release("b")
	require.Empty(t, l.locks)
}
