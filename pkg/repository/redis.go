package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
)

const (
	orderCacheTTL   = 30 * time.Minute
	productCacheTTL = 10 * time.Minute
)

type RedisCache struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisCache(cfg *config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) setJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisCache) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisCache) CacheOrder(ctx context.Context, order *models.Order) error {
	return r.setJSON(ctx, fmt.Sprintf("order:%s", order.ID), order, orderCacheTTL)
}

func (r *RedisCache) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.getJSON(ctx, fmt.Sprintf("order:%s", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *RedisCache) InvalidateOrder(ctx context.Context, id string) error {
	return r.client.Del(ctx, fmt.Sprintf("order:%s", id)).Err()
}

func (r *RedisCache) CacheProduct(ctx context.Context, product *models.Product) error {
	return r.setJSON(ctx, fmt.Sprintf("product:%s", product.ID), product, productCacheTTL)
}

func (r *RedisCache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.getJSON(ctx, fmt.Sprintf("product:%s", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisCache) InvalidateProduct(ctx context.Context, id string) error {
	return r.client.Del(ctx, fmt.Sprintf("product:%s", id)).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
