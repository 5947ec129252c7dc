package discovery

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrWaitTimeout = errors.New("discovery: timed out waiting for readiness")

// WaitReady checks cond immediately and then once per interval until it holds.
// It returns the ctx error on cancellation, or ErrWaitTimeout once maxWait has
// elapsed. A zero maxWait waits without bound.
func WaitReady(ctx context.Context, cond func() bool, interval, maxWait time.Duration) error {
	if cond() {
		return nil
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			if cond() {
				return nil
			}
			return errors.Wrapf(ErrWaitTimeout, "after %v", maxWait)
		case <-ticker.C:
			if cond() {
				return nil
			}
		}
	}
}
