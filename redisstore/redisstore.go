// Package redisstore provides a redis storage implementation.
//
// RedisStore allows storing, retrieving, and deleting values keyed by
// a string. Every key is namespaced with a prefix so Clear only touches
// what this store owns. Expiration is delegated to redis TTLs.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluescreen10/reqx"
)

// DefaultPrefix namespaces the keys written by a RedisStore.
const DefaultPrefix = "reqx:"

var _ reqx.Store = &RedisStore{}

// RedisStore is a redis backed storage for client state.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// New creates and returns a new RedisStore using DefaultPrefix.
func New(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: DefaultPrefix}
}

// NewWithPrefix creates a RedisStore whose keys start with prefix.
func NewWithPrefix(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Get retrieves the data associated with the given key. Returns the data,
// a boolean indicating whether the key was found and not expired, and an
// error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []byte{}, false, nil
		}
		return []byte{}, false, err
	}

	return data, true, nil
}

// Set stores the data under the given key. A zero expiresAt keeps the key
// without a TTL. An expiresAt in the past deletes the key.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, key)
		}
	}
	return s.rdb.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Delete removes the data associated with the given key. If the key does
// not exist, this is a no-op.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// Clear removes every key carrying the store prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
