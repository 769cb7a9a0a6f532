package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss ключа нет в кэше либо его TTL истёк
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository кэш с поэлементным TTL. Значения непрозрачные байты:
// сериализацию выбирает вызывающая сторона. Запись атомарна (одиночный SET),
// частично записанных значений не бывает.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.redis.Client.Set(ctx, key, value, ttl).Err()
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	return r.redis.Client.Del(ctx, key).Err()
}

// Ключи кэша: {назначение}:{владелец}:{область}. Префикс с идентификатором
// владельца исключает утечку данных между аккаунтами через коллизию ключей.

func AliasAnalyticsKey(userID, alias string) string {
	return "analytics:" + userID + ":" + alias
}

func TopicAnalyticsKey(userID, topic string) string {
	return "topicAnalytics:" + userID + ":" + topic
}

func OverallAnalyticsKey(userID string) string {
	return "overallAnalytics:" + userID
}

// RedirectKey memo alias -> destination, ключ — сам alias
func RedirectKey(alias string) string {
	return alias
}
