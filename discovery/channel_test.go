package discovery

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
)

type stubWallet struct{ name string }

func (w *stubWallet) GetOfflineSigner(context.Context, string) (signer.OfflineSigner, error) {
	return nil, signer.ChainNotSupported("stub")
}

func (w *stubWallet) GetAccount(context.Context, string, string) (types.AccountData, error) {
	return types.AccountData{}, signer.AccountNotFound("stub", "")
}

func TestObtainWalletHostAlreadyComplete(t *testing.T) {
	ch := NewChannel(StaticHost(StateComplete))
	wallet := &stubWallet{name: "provider"}

	var dispatchedAt time.Time
	ch.Subscribe(func(ev Event) {
		require.Equal(t, ReadyStateChangeEvent, ev.Name)
		dispatchedAt = ev.At
		require.NoError(t, ch.Register(wallet))
	})

	start := time.Now()
	got, err := ch.ObtainWallet(context.Background())
	require.NoError(t, err)
	require.Same(t, wallet, got)
	require.LessOrEqual(t, dispatchedAt.Sub(start), DefaultPollInterval)
	require.Equal(t, Ready, ch.State())
}

func TestObtainWalletDispatchesOnce(t *testing.T) {
	host := NewFlagHost(StateLoading)
	var dispatches int32
	ch := NewChannel(host, WithPollInterval(5*time.Millisecond), WithDispatchHook(func() {
		atomic.AddInt32(&dispatches, 1)
	}))
	wallet := &stubWallet{}
	var registerErr error
	ch.Subscribe(func(Event) {
		registerErr = ch.Register(wallet)
	})

	const callers = 10
	results := make([]signer.Wallet, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ch.ObtainWallet(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, Polling, ch.State())
	host.Complete()
	wg.Wait()

	require.NoError(t, registerErr)
	require.Equal(t, int32(1), atomic.LoadInt32(&dispatches))
	for i, w := range results {
		require.NoError(t, errs[i])
		require.Same(t, wallet, w)
	}

	// later calls resolve without a second dispatch
	w, err := ch.ObtainWallet(context.Background())
	require.NoError(t, err)
	require.Same(t, wallet, w)
	require.Equal(t, int32(1), atomic.LoadInt32(&dispatches))
}

func TestListenerMayObtainWallet(t *testing.T) {
	ch := NewChannel(StaticHost(StateComplete), WithMaxWait(2*time.Second))
	wallet := &stubWallet{name: "provider"}

	var inner signer.Wallet
	var registerErr, innerErr error
	ch.Subscribe(func(Event) {
		registerErr = ch.Register(wallet)
		inner, innerErr = ch.ObtainWallet(context.Background())
	})

	done := make(chan struct{})
	var outer signer.Wallet
	var outerErr error
	go func() {
		defer close(done)
		outer, outerErr = ch.ObtainWallet(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("ObtainWallet from a listener deadlocked")
	}
	require.NoError(t, registerErr)
	require.NoError(t, outerErr)
	require.NoError(t, innerErr)
	require.Same(t, wallet, outer)
	require.Same(t, wallet, inner)
}

func TestRegisterIsSingleAssignment(t *testing.T) {
	ch := NewChannel(StaticHost(StateComplete))
	first, second := &stubWallet{name: "first"}, &stubWallet{name: "second"}

	require.True(t, errors.Is(ch.Register(nil), ErrNilWallet))
	require.NoError(t, ch.Register(first))
	require.True(t, errors.Is(ch.Register(second), ErrAlreadyRegistered))

	got, err := ch.ObtainWallet(context.Background())
	require.NoError(t, err)
	require.Same(t, first, got)
}

func TestObtainWalletMaxWait(t *testing.T) {
	ch := NewChannel(StaticHost(StateLoading), WithPollInterval(time.Millisecond), WithMaxWait(20*time.Millisecond))
	_, err := ch.ObtainWallet(context.Background())
	require.True(t, errors.Is(err, ErrWaitTimeout))
	require.Equal(t, Polling, ch.State())

	// host ready but no provider registers
	ch = NewChannel(StaticHost(StateComplete), WithMaxWait(20*time.Millisecond))
	_, err = ch.ObtainWallet(context.Background())
	require.True(t, errors.Is(err, ErrWaitTimeout))
	require.Equal(t, Ready, ch.State())
}

func TestObtainWalletCancel(t *testing.T) {
	ch := NewChannel(StaticHost(StateLoading), WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := ch.ObtainWallet(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestUnsubscribe(t *testing.T) {
	ch := NewChannel(StaticHost(StateComplete))
	var called int32
	unsubscribe := ch.Subscribe(func(Event) { atomic.AddInt32(&called, 1) })
	unsubscribe()
	require.NoError(t, ch.Register(&stubWallet{}))
	_, err := ch.ObtainWallet(context.Background())
	require.NoError(t, err)
	require.Zero(t, atomic.LoadInt32(&called))
}

func TestWaitReady(t *testing.T) {
	var n int32
	cond := func() bool { return atomic.AddInt32(&n, 1) >= 3 }
	require.NoError(t, WaitReady(context.Background(), cond, time.Millisecond, 0))
	require.Equal(t, int32(3), atomic.LoadInt32(&n))

	err := WaitReady(context.Background(), func() bool { return false }, time.Millisecond, 5*time.Millisecond)
	require.True(t, errors.Is(err, ErrWaitTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WaitReady(ctx, func() bool { return false }, time.Millisecond, 0)
	require.True(t, errors.Is(err, context.Canceled))

	// first check is immediate
	require.NoError(t, WaitReady(ctx, func() bool { return true }, time.Hour, 0))
}
