package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Registry records revoked token identifiers. Entries are never pruned.
type Registry interface {
	// Revoke marks jti as revoked. It reports false when jti was already
	// present, so callers can tell a repeated logout apart from the first.
	Revoke(ctx context.Context, jti string) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type MemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{revoked: make(map[string]struct{})}
}

func (r *MemoryRegistry) Revoke(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.revoked[jti]; ok {
		return false, nil
	}
	r.revoked[jti] = struct{}{}
	return true, nil
}

func (r *MemoryRegistry) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.revoked[jti]
	return ok, nil
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.revoked)
}

const defaultRedisKeyPrefix = "blacklist"

// RedisRegistry shares revocations between instances. Keys are written
// without expiry.
type RedisRegistry struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRegistry(client redis.UniversalClient, prefix string) *RedisRegistry {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}

	return &RedisRegistry{client: client, prefix: prefix}
}

func (r *RedisRegistry) Revoke(ctx context.Context, jti string) (bool, error) {
	added, err := r.client.SetNX(ctx, r.key(jti), "true", 0).Result()
	if err != nil {
		return false, fmt.Errorf("revoke token in redis: %w", err)
	}
	return added, nil
}

func (r *RedisRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup revoked token in redis: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRegistry) key(jti string) string {
	return fmt.Sprintf("%s:%s", r.prefix, jti)
}
