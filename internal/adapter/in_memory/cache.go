package in_memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/port"
)

var _ port.CandleCache = (*Cache)(nil)

// Cache is a map-backed candle-window cache.
type Cache struct {
	mu    sync.Mutex
	store map[string][]domain.Candle
}

func NewCache() *Cache {
	return &Cache{store: make(map[string][]domain.Candle)}
}

func (c *Cache) SetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time, candles []domain.Candle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[windowKey(symbol, intervalMinutes, since)] = append([]domain.Candle(nil), candles...)
	return nil
}

func (c *Cache) GetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	window, ok := c.store[windowKey(symbol, intervalMinutes, since)]
	if !ok {
		return nil, nil
	}
	return append([]domain.Candle(nil), window...), nil
}

func windowKey(symbol string, intervalMinutes int, since time.Time) string {
	return fmt.Sprintf("%s:%dm:%d", symbol, intervalMinutes, since.UnixMilli())
}
