package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireDispatchLock attempts to acquire the dispatch lock for a
// booking, so only one instance fans out notifications for it.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireDispatchLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:dispatch:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseDispatchLock releases the dispatch lock for a booking.
func (s *LockStore) ReleaseDispatchLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:dispatch:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}
