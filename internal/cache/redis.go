package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/items-api/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const listKey = "items:all"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	data, err := r.client.Get(ctx, itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var item domain.Item
	if e2 := json.Unmarshal(data, &item); e2 != nil {
		return nil, fmt.Errorf("unmarshal item failed: %w", e2)
	}

	return &item, nil
}

func (r RedisCache) SetItem(ctx context.Context, item *domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item failed: %w", err)
	}

	if e2 := r.client.Set(ctx, itemKey(item.ID), data, r.ttl()).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (r RedisCache) GetAll(ctx context.Context) ([]*domain.Item, error) {
	data, err := r.client.Get(ctx, listKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []*domain.Item
	if e2 := json.Unmarshal(data, &items); e2 != nil {
		return nil, fmt.Errorf("unmarshal item list failed: %w", e2)
	}

	return items, nil
}

func (r RedisCache) SetAll(ctx context.Context, items []*domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal item list failed: %w", err)
	}

	if e2 := r.client.Set(ctx, listKey, data, r.ttl()).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (r RedisCache) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r RedisCache) DeleteAll(ctx context.Context) error {
	if err := r.client.Del(ctx, listKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// ttl spreads expirations out so the list entry and the per-item entries
// written on the same miss do not all expire in the same instant.
func (r RedisCache) ttl() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL)/5 + 1))
	return r.baseTTL + jitter
}

func itemKey(id uuid.UUID) string {
	return fmt.Sprintf("item:%s", id)
}
