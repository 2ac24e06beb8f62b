package port

import (
	"context"

	"github.com/mkudasheva/paper-broker/internal/domain"
)

// OrderHandler is the venue-facing order API. The simulated handler in
// core implements it against a candle store; a real exchange integration
// would satisfy the same contract.
type OrderHandler interface {
	// SubmitOrder moves a pending order to submitted and persists it.
	SubmitOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)

	// CheckOrder re-evaluates an active order against the latest candle
	// window and applies a fill when one occurred. Returns (nil, nil)
	// when the order no longer exists in the store.
	CheckOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)

	// CancelOrder cancels a non-terminal order.
	CancelOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)

	// CancelAllOrders cancels every submitted or pending order. Each
	// cancellation is attempted independently; the returned error joins
	// per-order failures without blocking the rest of the batch.
	CancelAllOrders(ctx context.Context) ([]*domain.Order, error)

	// GetActiveOrders returns every order not in a terminal state.
	GetActiveOrders(ctx context.Context) ([]*domain.Order, error)
}
