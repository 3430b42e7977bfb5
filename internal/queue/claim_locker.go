package queue

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ClaimLocker serialises claims on a task across server instances. A lock
// is held by token and expires after its TTL so a crashed holder cannot
// block a task forever.
type ClaimLocker interface {
	Acquire(ctx context.Context, taskID int, token string) error

	Release(ctx context.Context, taskID int, token string) error
}

var ErrLockHeld = errors.New("claim lock held by another request")

func claimKey(prefix string, taskID int) string {
	return prefix + ":" + strconv.Itoa(taskID)
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Second
	}
	return ttl
}
