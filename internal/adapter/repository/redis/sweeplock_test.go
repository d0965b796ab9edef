package redis

import (
	"context"
	"testing"
	"time"
)

func TestSweepLockAcquireAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewSweepLock(client)
	ctx := context.Background()

	acquired, err := lock.Acquire(ctx, "recurrence", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("expected first acquire to succeed, got acquired=%v err=%v", acquired, err)
	}

	acquired, err = lock.Acquire(ctx, "recurrence", time.Minute)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if acquired {
		t.Fatalf("expected second acquire to fail while held")
	}

	if err := lock.Release(ctx, "recurrence"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	acquired, err = lock.Acquire(ctx, "recurrence", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("expected acquire after release to succeed, got acquired=%v err=%v", acquired, err)
	}
}

func TestSweepLockExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewSweepLock(client)
	ctx := context.Background()

	if acquired, err := lock.Acquire(ctx, "interest", time.Second); err != nil || !acquired {
		t.Fatalf("expected acquire to succeed, got acquired=%v err=%v", acquired, err)
	}

	mr.FastForward(2 * time.Second)

	acquired, err := lock.Acquire(ctx, "interest", time.Second)
	if err != nil || !acquired {
		t.Fatalf("expected acquire after expiry to succeed, got acquired=%v err=%v", acquired, err)
	}
}
