package config

import (
	"fmt"

	"github.com/redis/rueidis"

	"task-marketplace.com/task-marketplace/internal/locks"
)

func NewRedisClient(addr string) (rueidis.Client, error) {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return redisClient, nil
}

// NewTaskLocker builds the configured per-task lock. The returned close
// function releases the redis connection, if one was opened.
func NewTaskLocker(cfg Config) (locks.TaskLocker, func(), error) {
	if cfg.LockBackend == LockBackendMemory {
		return locks.NewMemoryTaskLocker(cfg.LockWait), func() {}, nil
	}

	client, err := NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}

	return locks.NewRedisTaskLocker(client, cfg.LockPrefix, cfg.LockTTL, cfg.LockWait), client.Close, nil
}
