package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkudasheva/paper-broker/internal/domain"
)

// FillOutcome is the result of evaluating an order against a candle
// window: either no fill, or a fill at Price stamped with the matching
// candle's close time.
type FillOutcome struct {
	Filled    bool
	Price     decimal.Decimal
	Timestamp time.Time
}

// EvaluateFill decides whether and at what price an active order would
// have executed over candles. It is a pure function: the order is never
// mutated, and the same inputs always yield the same outcome.
//
// Candles must be ascending by open timestamp, at a fixed interval, with
// windows containing or following the order's submission time. The scan
// stops at the first candle satisfying the fill rule:
//
//   - market: fills on the first candle, at its high.
//   - limit long: fills when candle.Low <= Price1, at Price1.
//   - limit short: fills when candle.High >= Price1, at Price1.
//
// An empty window means no decision can be made yet and yields NoFill.
// A limit order whose price is never touched stays open indefinitely;
// the engine has no expiry concept.
func EvaluateFill(o *domain.Order, candles []domain.Candle) (FillOutcome, error) {
	if !o.Status.Active() {
		return FillOutcome{}, fmt.Errorf("%w: cannot evaluate order in status %s", domain.ErrInvalidStateTransition, o.Status)
	}

	switch o.Type {
	case domain.Market, domain.Limit:
	default:
		return FillOutcome{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedOrderType, o.Type)
	}

	for _, c := range candles {
		switch o.Type {
		case domain.Market:
			// Stands in for "immediate execution at next available
			// price"; the high is used for both directions.
			return FillOutcome{Filled: true, Price: c.High, Timestamp: c.CloseTimestamp}, nil
		case domain.Limit:
			if o.Direction == domain.Long && c.Low.LessThanOrEqual(o.Price1) {
				return FillOutcome{Filled: true, Price: o.Price1, Timestamp: c.CloseTimestamp}, nil
			}
			if o.Direction == domain.Short && c.High.GreaterThanOrEqual(o.Price1) {
				return FillOutcome{Filled: true, Price: o.Price1, Timestamp: c.CloseTimestamp}, nil
			}
		}
	}

	return FillOutcome{}, nil
}
