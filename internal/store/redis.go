package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const artifactNamespace = "reddigest:artifact:"

// RedisStore keeps artifacts as plain string values under a shared
// namespace. Artifacts never expire.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, artifactNamespace+key, data, 0).Err(); err != nil {
		return fmt.Errorf("put redis artifact %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, artifactNamespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get redis artifact %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	full, err := s.client.Keys(ctx, artifactNamespace+prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("list redis artifacts: %w", err)
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, artifactNamespace))
	}
	sort.Strings(keys)
	return keys, nil
}
