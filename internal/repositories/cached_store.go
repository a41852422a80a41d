package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type cachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore puts a redis cache-aside layer in front of primary. Redis
// failures never fail a call; the primary is the source of truth.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) Store {
	return &cachedStore{primary: primary, rdb: rdb, ttl: ttl}
}

func (s *cachedStore) cacheKey(key string) string {
	return fmt.Sprintf("kv:cache:%s", key)
}

func (s *cachedStore) Get(ctx context.Context, key string) (string, error) {
	if v, err := s.rdb.Get(ctx, s.cacheKey(key)).Result(); err == nil {
		return v, nil
	}

	v, err := s.primary.Get(ctx, key)
	if err != nil {
		return "", err
	}
	_ = s.rdb.Set(ctx, s.cacheKey(key), v, s.ttl).Err()
	return v, nil
}

func (s *cachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.primary.Set(ctx, key, value); err != nil {
		// drop the entry so readers fall back to the primary
		_ = s.rdb.Del(ctx, s.cacheKey(key)).Err()
		return err
	}
	if err := s.rdb.Set(ctx, s.cacheKey(key), value, s.ttl).Err(); err != nil {
		// the cached copy now predates the write
		_ = s.rdb.Del(ctx, s.cacheKey(key)).Err()
	}
	return nil
}
