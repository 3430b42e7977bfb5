package queue

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisClaimLocker struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisClaimLocker(client rueidis.Client, prefix string, ttl time.Duration) *RedisClaimLocker {
	return &RedisClaimLocker{
		client: client,
		prefix: prefix,
		ttl:    ttlOrDefault(ttl),
	}
}

func (r *RedisClaimLocker) Acquire(ctx context.Context, taskID int, token string) error {
	cmd := r.client.B().Set().
		Key(claimKey(r.prefix, taskID)).
		Value(token).
		Nx().
		Px(r.ttl).
		Build()

	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return ErrLockHeld
		}
		return err
	}

	return nil
}

// Release deletes the lock only while token still owns it.
func (r *RedisClaimLocker) Release(ctx context.Context, taskID int, token string) error {
	return releaseScript.Exec(ctx, r.client, []string{claimKey(r.prefix, taskID)}, []string{token}).Error()
}
