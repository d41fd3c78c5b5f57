// Package idempotency хранит использованные ключи идемпотентности в Redis.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore резервирует ключи идемпотентности на заданное время.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore создаёт хранилище поверх клиента Redis.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Key строит ключ хранилища для пространства scope, владельца и клиентского ключа.
func Key(scope, owner, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s", scope, owner, key)
}

// Claim резервирует ключ. Возвращает false, если ключ уже был зарезервирован.
func (s *RedisStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	return ok, nil
}

// Release освобождает ключ, чтобы неуспешный запрос можно было повторить.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
