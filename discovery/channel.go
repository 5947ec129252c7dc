// Package discovery hands a dApp the wallet once the host has finished
// loading. Providers subscribe to the readiness signal and register the
// wallet; every waiter receives the same registered handle.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/utils"
)

const (
	// ReadyStateChangeEvent is the name of the readiness signal.
	ReadyStateChangeEvent = "tailwind.readystatechange"

	DefaultPollInterval = 100 * time.Millisecond
)

var (
	ErrAlreadyRegistered = errors.New("discovery: wallet already registered")
	ErrNilWallet         = errors.New("discovery: nil wallet")
)

// State of a Channel. Ready is terminal.
type State int

const (
	Polling State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "READY"
	}
	return "POLLING"
}

// Event is delivered to listeners when the readiness signal is dispatched.
type Event struct {
	Name string
	At   time.Time
}

type Listener func(Event)

type Option func(*Channel)

func WithPollInterval(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxWait bounds ObtainWallet. Zero waits forever.
func WithMaxWait(d time.Duration) Option {
	return func(c *Channel) {
		c.maxWait = d
	}
}

// WithDispatchHook is called after every dispatch, e.g. to count it.
func WithDispatchHook(hook func()) Option {
	return func(c *Channel) {
		c.onDispatch = hook
	}
}

type Channel struct {
	host         Host
	pollInterval time.Duration
	maxWait      time.Duration
	onDispatch   func()

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	state     State

	dispatchOnce sync.Once

	registerOnce sync.Once
	registered   chan struct{}
	wallet       signer.Wallet
}

func NewChannel(host Host, opts ...Option) *Channel {
	c := &Channel{
		host:         host,
		pollInterval: DefaultPollInterval,
		listeners:    make(map[int]Listener),
		registered:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe adds a listener for the readiness signal. A listener subscribed
// after the dispatch is not called.
func (c *Channel) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Register supplies the wallet handle. Only the first call takes effect.
func (c *Channel) Register(w signer.Wallet) error {
	if w == nil {
		return ErrNilWallet
	}
	err := ErrAlreadyRegistered
	c.registerOnce.Do(func() {
		c.wallet = w
		close(c.registered)
		err = nil
	})
	return err
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ObtainWallet waits for the host to complete, dispatches the readiness
// signal (once per channel) and returns the registered wallet.
func (c *Channel) ObtainWallet(ctx context.Context) (signer.Wallet, error) {
	if c.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.maxWait)
		defer cancel()
	}

	hostReady := func() bool { return c.host.ReadyState() == StateComplete }
	if err := WaitReady(ctx, hostReady, c.pollInterval, c.maxWait); err != nil {
		return nil, c.waitErr(ctx, err)
	}
	c.dispatch()

	select {
	case <-c.registered:
		return c.wallet, nil
	case <-ctx.Done():
		return nil, c.waitErr(ctx, ctx.Err())
	}
}

func (c *Channel) waitErr(ctx context.Context, err error) error {
	if c.maxWait > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrWaitTimeout) {
		return errors.Wrapf(ErrWaitTimeout, "after %v", c.maxWait)
	}
	return err
}

// dispatch flips the channel to Ready once. Listeners run after the flip,
// outside the Once, so they may call ObtainWallet themselves.
func (c *Channel) dispatch() {
	var listeners []Listener
	fired := false
	c.dispatchOnce.Do(func() {
		c.mu.Lock()
		c.state = Ready
		listeners = make([]Listener, 0, len(c.listeners))
		for _, l := range c.listeners {
			listeners = append(listeners, l)
		}
		c.mu.Unlock()
		fired = true
	})
	if !fired {
		return
	}

	utils.DebugLogf("dispatching %s to %d listener(s)", ReadyStateChangeEvent, len(listeners))
	ev := Event{Name: ReadyStateChangeEvent, At: time.Now()}
	for _, l := range listeners {
		l(ev)
	}
	if c.onDispatch != nil {
		c.onDispatch()
	}
}
