package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/port"
)

// checkIntervalMinutes is the candle interval the simulator evaluates
// fills against.
const checkIntervalMinutes = 1

var _ port.OrderHandler = (*SimHandler)(nil)

// SimHandler simulates a venue by matching orders against historical
// candles. It is the sole mutator of order status, timestamps and trades.
type SimHandler struct {
	orders  port.OrderRepository
	candles port.CandleSource
	cache   port.CandleCache
	log     *zap.Logger
}

func NewSimHandler(orders port.OrderRepository, candles port.CandleSource, cache port.CandleCache, log *zap.Logger) *SimHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SimHandler{
		orders:  orders,
		candles: candles,
		cache:   cache,
		log:     log,
	}
}

// SubmitOrder moves a pending order to submitted, stamps the submission
// time and persists it.
func (h *SimHandler) SubmitOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if err := o.TransitionTo(domain.StatusSubmitted); err != nil {
		return nil, err
	}
	now := time.Now()
	o.SubmissionTimestamp = &now

	h.log.Info("submitting order",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("type", string(o.Type)))

	if err := h.orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("submit order %s: %w", o.ID, err)
	}
	return o, nil
}

// CheckOrder pulls the candle window opened by the order's submission
// time and applies the fill simulation. A fill sets status, execution
// timestamp and the trade record together; no fill re-persists the order
// unchanged so repeated checks are idempotent. Returns (nil, nil) when
// the order is gone from the store.
func (h *SimHandler) CheckOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if !o.Status.Active() {
		return nil, fmt.Errorf("%w: cannot check order in status %s", domain.ErrInvalidStateTransition, o.Status)
	}

	stored, err := h.orders.OrderByID(ctx, o.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.log.Warn("order vanished from store", zap.String("order_id", o.ID))
			return nil, nil
		}
		return nil, fmt.Errorf("check order %s: %w", o.ID, err)
	}
	if stored.SubmissionTimestamp == nil {
		return nil, fmt.Errorf("%w: order %s has no submission timestamp", domain.ErrInvalidStateTransition, o.ID)
	}

	window, err := h.candleWindow(ctx, stored.Symbol, *stored.SubmissionTimestamp)
	if err != nil {
		return nil, fmt.Errorf("check order %s: %w", o.ID, err)
	}
	h.log.Info("checking order",
		zap.String("order_id", stored.ID),
		zap.Int("candles", len(window)))

	outcome, err := EvaluateFill(stored, window)
	if err != nil {
		return nil, err
	}

	if outcome.Filled {
		if err := stored.TransitionTo(domain.StatusFilled); err != nil {
			return nil, err
		}
		ts := outcome.Timestamp
		stored.ExecutionTimestamp = &ts
		stored.Trades = append(stored.Trades, domain.Trade{Price: outcome.Price, Timestamp: ts})
		h.log.Info("order filled",
			zap.String("order_id", stored.ID),
			zap.String("price", outcome.Price.String()),
			zap.Time("timestamp", ts))
	} else {
		h.log.Info("order not filled",
			zap.String("order_id", stored.ID),
			zap.String("status", string(stored.Status)))
	}

	if err := h.orders.SaveOrder(ctx, stored); err != nil {
		return nil, fmt.Errorf("check order %s: %w", o.ID, err)
	}
	return stored, nil
}

// CancelOrder cancels a non-terminal order and stamps the cancellation
// time.
func (h *SimHandler) CancelOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if err := o.TransitionTo(domain.StatusCancelled); err != nil {
		return nil, err
	}
	now := time.Now()
	o.CancellationTimestamp = &now

	if err := h.orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", o.ID, err)
	}
	h.log.Info("cancelled order",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol))
	return o, nil
}

// CancelAllOrders cancels every submitted or pending order. Cancellations
// fan out concurrently and are isolated from each other: one failure
// never blocks the rest. The joined per-order errors are returned
// alongside the orders that were cancelled.
func (h *SimHandler) CancelAllOrders(ctx context.Context) ([]*domain.Order, error) {
	open, err := h.orders.OrdersByStatus(ctx, domain.StatusSubmitted, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("cancel all orders: %w", err)
	}
	h.log.Info("cancelling open orders", zap.Int("count", len(open)))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		cancelled []*domain.Order
		errs      []error
	)
	for _, o := range open {
		wg.Add(1)
		go func(o *domain.Order) {
			defer wg.Done()
			done, err := h.CancelOrder(ctx, o)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("order %s: %w", o.ID, err))
				return
			}
			cancelled = append(cancelled, done)
		}(o)
	}
	wg.Wait()

	return cancelled, errors.Join(errs...)
}

// GetActiveOrders returns every order not in a terminal state.
func (h *SimHandler) GetActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	return h.orders.OrdersByStatus(ctx,
		domain.StatusPending, domain.StatusSubmitted, domain.StatusPartiallyFilled)
}

// Order fetches a single order by id.
func (h *SimHandler) Order(ctx context.Context, id string) (*domain.Order, error) {
	return h.orders.OrderByID(ctx, id)
}

// candleWindow consults the cache before the source and populates it on a
// miss. Cache errors degrade to a source read.
func (h *SimHandler) candleWindow(ctx context.Context, symbol string, since time.Time) ([]domain.Candle, error) {
	if h.cache != nil {
		if cached, err := h.cache.GetWindow(ctx, symbol, checkIntervalMinutes, since); err == nil && cached != nil {
			return cached, nil
		}
	}
	window, err := h.candles.CandlesSince(ctx, symbol, checkIntervalMinutes, since)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		if err := h.cache.SetWindow(ctx, symbol, checkIntervalMinutes, since, window); err != nil {
			h.log.Warn("candle cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return window, nil
}
