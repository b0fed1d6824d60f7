package token

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records revoked token ids. Entries expire once the
// longest-lived token carrying the jti would have expired anyway, so the
// set stays bounded.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocations keeps the revocation set in process memory. Sessions
// revoked here become valid again after a restart; single-instance
// deployments accept that, everything else should use RedisRevocations.
type MemoryRevocations struct {
	mu      sync.RWMutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations builds the in-process revocation set.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		expires: make(map[string]time.Time),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Revoke records the jti. Idempotent.
func (m *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.expires[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked reports whether the jti is in the set.
func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	deadline, ok := m.expires[jti]
	return ok && m.now().Before(deadline), nil
}

func (m *MemoryRevocations) sweepLocked() {
	now := m.now()
	for jti, deadline := range m.expires {
		if !now.Before(deadline) {
			delete(m.expires, jti)
		}
	}
}

const redisRevocationPrefix = "revoked:jti:"

// RedisRevocations backs the revocation set with Redis so revocation
// survives restarts and is shared across instances.
type RedisRevocations struct {
	cache *redis.Client
}

// NewRedisRevocations builds a Redis-backed revocation store.
func NewRedisRevocations(cache *redis.Client) *RedisRevocations {
	return &RedisRevocations{cache: cache}
}

// Revoke records the jti with the provided TTL. Idempotent.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.cache.Set(ctx, redisRevocationPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the jti is in the set.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.cache.Exists(ctx, redisRevocationPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
