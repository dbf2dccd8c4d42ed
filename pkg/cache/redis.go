// Пакет cache предоставляет обёртку над Redis для кэширования записей каталога
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss возвращается, когда запрошенный ключ отсутствует в Redis.
// Позволяет отличить промах кэша от сбоя самого Redis.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient обёртка над *redis.Client с байтовым интерфейсом Set/Get/Invalidate
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient создаёт RedisClient с заданными опциями подключения
func NewRedisClient(opts *redis.Options) *RedisClient {
	return &RedisClient{client: redis.NewClient(opts)}
}

// Set сохраняет значение под ключом key с временем жизни expiration
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get возвращает значение по ключу key.
// Отсутствующий ключ (redis.Nil) превращается в ErrCacheMiss,
// остальные ошибки возвращаются как есть
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Invalidate удаляет ключ key; вызывается после изменения или удаления записи
func (r *RedisClient) Invalidate(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}
