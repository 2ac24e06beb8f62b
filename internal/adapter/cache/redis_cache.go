package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/port"
)

var _ port.CandleCache = (*RedisCache)(nil)

// RedisCache caches candle windows as JSON with a TTL, so repeated order
// checks inside the TTL do not hit the candle store again.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

func key(symbol string, intervalMinutes int, since time.Time) string {
	return fmt.Sprintf("candles:%s:%dm:%d", symbol, intervalMinutes, since.UnixMilli())
}

func (c *RedisCache) SetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time, candles []domain.Candle) error {
	b, err := json.Marshal(candles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(symbol, intervalMinutes, since), b, c.ttl).Err()
}

func (c *RedisCache) GetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error) {
	b, err := c.client.Get(ctx, key(symbol, intervalMinutes, since)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var candles []domain.Candle
	if err := json.Unmarshal(b, &candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
