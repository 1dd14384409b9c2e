package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache stores finished plans as JSON under digest keys.
// Plans are deterministic for a given key, so entries never need invalidation;
// the TTL only bounds memory.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisPlanCache{client: client, ttl: ttl}
}

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ *domain.Plan, _ bool, err error) {
	defer obs.Time(ctx, "plan.cache.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("plan cache: redis client is nil")
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan cache key=%q: %w", key, err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, false, fmt.Errorf("decode plan cache key=%q: %w", key, err)
	}

	return &plan, true, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key string, plan *domain.Plan) error {
	if c.client == nil {
		return errors.New("plan cache: redis client is nil")
	}
	if plan == nil {
		return errors.New("plan cache: plan is nil")
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", plan.ID, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set plan cache key=%q: %w", key, err)
	}

	return nil
}
