package in_memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/port"
)

var _ port.OrderRepository = (*MemoryRepo)(nil)
var _ port.CandleSource = (*MemoryRepo)(nil)

// MemoryRepo is a map-backed order repository and candle source, used for
// tests and storeless runs. It honors the same version compare-and-swap
// contract as the Postgres repository.
type MemoryRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	candles map[string][]domain.Candle // keyed by symbol/interval
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orders:  make(map[string]*domain.Order),
		candles: make(map[string][]domain.Candle),
	}
}

func (r *MemoryRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.orders[o.ID]; ok && stored.Version != o.Version {
		return fmt.Errorf("%w: order %s version %d", domain.ErrVersionConflict, o.ID, o.Version)
	}
	o.Version++
	o.UpdatedAt = time.Now()
	cp := copyOrder(o)
	r.orders[o.ID] = cp
	return nil
}

func (r *MemoryRepo) OrderByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return copyOrder(o), nil
}

func (r *MemoryRepo) OrdersByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Order
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				res = append(res, copyOrder(o))
				break
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// Delete removes an order outright. Tests use it to simulate an order
// vanishing between checks.
func (r *MemoryRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
}

// SeedCandles registers candles for a symbol/interval, kept ascending by
// open timestamp.
func (r *MemoryRepo) SeedCandles(symbol string, intervalMinutes int, candles []domain.Candle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := candleKey(symbol, intervalMinutes)
	merged := append(r.candles[k], candles...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].OpenTimestamp.Before(merged[j].OpenTimestamp) })
	r.candles[k] = merged
}

func (r *MemoryRepo) CandlesSince(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.Candle
	for _, c := range r.candles[candleKey(symbol, intervalMinutes)] {
		if c.Contains(since) || !c.OpenTimestamp.Before(since) {
			res = append(res, c)
		}
	}
	return res, nil
}

func candleKey(symbol string, intervalMinutes int) string {
	return fmt.Sprintf("%s:%dm", symbol, intervalMinutes)
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Trades = append([]domain.Trade(nil), o.Trades...)
	if o.SubmissionTimestamp != nil {
		ts := *o.SubmissionTimestamp
		cp.SubmissionTimestamp = &ts
	}
	if o.ExecutionTimestamp != nil {
		ts := *o.ExecutionTimestamp
		cp.ExecutionTimestamp = &ts
	}
	if o.CancellationTimestamp != nil {
		ts := *o.CancellationTimestamp
		cp.CancellationTimestamp = &ts
	}
	return &cp
}
