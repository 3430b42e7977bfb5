package queue

import (
	"context"
	"sync"
	"time"
)

// LocalClaimLocker keeps claim locks in process memory. It is used when the
// service runs as a single instance without Redis.
type LocalClaimLocker struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	locks map[int]localLock
}

type localLock struct {
	token   string
	expires time.Time
}

func NewLocalClaimLocker(ttl time.Duration) *LocalClaimLocker {
	return &LocalClaimLocker{
		ttl:   ttlOrDefault(ttl),
		now:   time.Now,
		locks: make(map[int]localLock),
	}
}

func (l *LocalClaimLocker) Acquire(ctx context.Context, taskID int, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[taskID]; ok && now.Before(held.expires) {
		return ErrLockHeld
	}

	l.locks[taskID] = localLock{token: token, expires: now.Add(l.ttl)}
	return nil
}

func (l *LocalClaimLocker) Release(ctx context.Context, taskID int, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.locks[taskID]; ok && held.token == token {
		delete(l.locks, taskID)
	}
	return nil
}
