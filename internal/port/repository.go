package port

import (
	"context"
	"time"

	"github.com/mkudasheva/paper-broker/internal/domain"
)

// OrderRepository persists orders. SaveOrder is an upsert guarded by the
// order's version: the stored row is replaced only when its version
// matches the one the caller read, so concurrent writers cannot lose
// updates (at-most-one-writer-wins). On success the order's Version is
// incremented; a stale write returns domain.ErrVersionConflict.
type OrderRepository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	OrderByID(ctx context.Context, id string) (*domain.Order, error)
	OrdersByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error)
}

// CandleSource supplies candles for a symbol at a fixed interval whose
// window either contains since or opens after it, ascending by open
// timestamp.
type CandleSource interface {
	CandlesSince(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error)
}
