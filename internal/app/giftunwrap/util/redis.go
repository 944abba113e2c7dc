package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "catalog:all"

const cacheServiceName = "giftunwrap-backend"

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient подключается к Redis и проверяет соединение ping-ом
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// SetCatalog кеширует полный каталог категорий с товарами
func (r *RedisClient) SetCatalog(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := r.client.Set(ctx, catalogCacheKey, data, ttl).Err(); err != nil {
		metrics.RedisErrors.WithLabelValues(cacheServiceName, "set").Inc()
		return fmt.Errorf("failed to set catalog in cache: %w", err)
	}

	return nil
}

// GetCatalog читает каталог из кеша; (nil, nil) означает cache miss
func (r *RedisClient) GetCatalog(ctx context.Context) ([]entity.Category, error) {
	data, err := r.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RedisCacheMisses.WithLabelValues(cacheServiceName, "catalog").Inc()
			return nil, nil
		}
		metrics.RedisErrors.WithLabelValues(cacheServiceName, "get").Inc()
		return nil, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	metrics.RedisCacheHits.WithLabelValues(cacheServiceName, "catalog").Inc()
	return categories, nil
}

// DeleteCatalog инвалидирует кеш каталога после любой мутации
func (r *RedisClient) DeleteCatalog(ctx context.Context) error {
	if err := r.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		metrics.RedisErrors.WithLabelValues(cacheServiceName, "del").Inc()
		return fmt.Errorf("failed to delete catalog from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
