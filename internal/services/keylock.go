package services

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/metrics"
)

// keyLocker hands out one single-permit channel per user id. Tokens are
// created on first use and kept for the life of the locker, so every
// operation on a user always contends on the same token.
type keyLocker struct {
	mu     sync.Mutex
	tokens map[int64]chan struct{}
}

func newKeyLocker() *keyLocker {
	return &keyLocker{tokens: make(map[int64]chan struct{})}
}

func (l *keyLocker) token(key int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.tokens[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.tokens[key] = ch
	}
	return ch
}

// Lock blocks until the token for key is held, ctx is done, or timeout
// elapses. A zero timeout waits indefinitely. The returned func releases
// the token and must be called exactly once.
func (l *keyLocker) Lock(ctx context.Context, key int64, timeout time.Duration) (func(), error) {
	ch := l.token(key)
	release := func() { <-ch }

	select {
	case ch <- struct{}{}:
		metrics.LockWaitSeconds.Observe(0)
		return release, nil
	default:
	}

	start := time.Now()
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case ch <- struct{}{}:
		metrics.LockWaitSeconds.Observe(time.Since(start).Seconds())
		return release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-expired:
		return nil, ErrLockTimeout
	}
}

func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}
