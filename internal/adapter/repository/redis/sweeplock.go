package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SweepLock implements usecase.SweepLock using Redis SETNX. The lock is an
// optimization against duplicate sweep work across instances; correctness
// of each occurrence is guarded in the database.
type SweepLock struct {
	client *redis.Client
	prefix string
}

// NewSweepLock creates a new SweepLock.
func NewSweepLock(client *redis.Client) *SweepLock {
	return &SweepLock{
		client: client,
		prefix: "sweeplock:",
	}
}

// Acquire attempts to take the named lock for the TTL.
func (l *SweepLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+name, "held", ttl).Result()
}

// Release drops the named lock.
func (l *SweepLock) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, l.prefix+name).Err()
}
