package wallet

import (
	"context"
	"sync"
)

// AddressLock serializes work per key. Acquire honours ctx.
type AddressLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func NewAddressLock() *AddressLock {
	return &AddressLock{locks: make(map[string]*lockEntry)}
}

func (l *AddressLock) Acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.unref(key, e)
		l.mu.Unlock()
		return ctx.Err()
	}
}

// Release must follow a successful Acquire of the same key.
func (l *AddressLock) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		return
	}
	<-e.ch
	l.unref(key, e)
}

func (l *AddressLock) unref(key string, e *lockEntry) {
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
