package locks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

const redisRetryInterval = 25 * time.Millisecond

var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisTaskLocker struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisTaskLocker builds a locker whose leases expire after ttl and whose
// Acquire gives up after wait.
func NewRedisTaskLocker(client rueidis.Client, prefix string, ttl, wait time.Duration) *RedisTaskLocker {
	return &RedisTaskLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
	}
}

func (r *RedisTaskLocker) Acquire(ctx context.Context, taskID string) (Lease, error) {
	lease := Lease{Key: r.prefix + taskID, Token: uuid.NewString()}
	deadline := time.Now().Add(r.wait)

	for {
		cmd := r.client.B().Set().Key(lease.Key).Value(lease.Token).Nx().PxMilliseconds(r.ttl.Milliseconds()).Build()
		err := r.client.Do(ctx, cmd).Error()
		if err == nil {
			return lease, nil
		}
		if !rueidis.IsRedisNil(err) {
			return Lease{}, err
		}

		if !time.Now().Before(deadline) {
			return Lease{}, ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return Lease{}, ctx.Err()
		case <-time.After(redisRetryInterval):
		}
	}
}

func (r *RedisTaskLocker) Release(ctx context.Context, lease Lease) error {
	return releaseScript.Exec(ctx, r.client, []string{lease.Key}, []string{lease.Token}).Error()
}
