package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mkudasheva/paper-broker/internal/domain"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// minuteCandles builds contiguous 1-minute candles from (low, high) pairs
// starting at t0.
func minuteCandles(bounds ...[2]int64) []domain.Candle {
	candles := make([]domain.Candle, len(bounds))
	for i, b := range bounds {
		open := t0.Add(time.Duration(i) * time.Minute)
		low := decimal.NewFromInt(b[0])
		high := decimal.NewFromInt(b[1])
		candles[i] = domain.Candle{
			Symbol:          "BTCUSDT",
			IntervalMinutes: 1,
			OpenTimestamp:   open,
			CloseTimestamp:  open.Add(time.Minute),
			Open:            low,
			High:            high,
			Low:             low,
			Close:           high,
		}
	}
	return candles
}

func submittedOrder(t *testing.T, typ domain.OrderType, dir domain.Direction, price int64) *domain.Order {
	t.Helper()
	var (
		o   *domain.Order
		err error
	)
	inst := domain.Instrument{Type: domain.InstrumentSpot, Symbol: "BTCUSDT"}
	qty := domain.Quantity{Amount: decimal.NewFromInt(1), Unit: domain.UnitBase}
	if typ == domain.Market {
		o, err = domain.NewMarketOrder(inst, qty, dir)
	} else {
		o, err = domain.NewLimitOrder(inst, decimal.NewFromInt(price), qty, dir)
	}
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(domain.StatusSubmitted))
	sub := t0
	o.SubmissionTimestamp = &sub
	return o
}

func TestEvaluateFill_LimitLong(t *testing.T) {
	o := submittedOrder(t, domain.Limit, domain.Long, 100)
	candles := minuteCandles([2]int64{105, 110}, [2]int64{101, 108}, [2]int64{99, 104})

	outcome, err := EvaluateFill(o, candles)
	require.NoError(t, err)

	require.True(t, outcome.Filled)
	assert.True(t, outcome.Price.Equal(decimal.NewFromInt(100)), "limit long fills at price1")
	assert.Equal(t, candles[2].CloseTimestamp, outcome.Timestamp)
}

func TestEvaluateFill_LimitLongNeverTouched(t *testing.T) {
	o := submittedOrder(t, domain.Limit, domain.Long, 100)
	candles := minuteCandles([2]int64{105, 110}, [2]int64{101, 108})

	outcome, err := EvaluateFill(o, candles)
	require.NoError(t, err)
	assert.False(t, outcome.Filled)
}

func TestEvaluateFill_LimitShort(t *testing.T) {
	o := submittedOrder(t, domain.Limit, domain.Short, 100)
	candles := minuteCandles([2]int64{90, 95}, [2]int64{94, 99}, [2]int64{98, 101})

	outcome, err := EvaluateFill(o, candles)
	require.NoError(t, err)

	require.True(t, outcome.Filled)
	assert.True(t, outcome.Price.Equal(decimal.NewFromInt(100)), "limit short fills at price1")
	assert.Equal(t, candles[2].CloseTimestamp, outcome.Timestamp)
}

func TestEvaluateFill_LimitTouchExactly(t *testing.T) {
	// price touched, not crossed: low == price1 counts as a fill
	o := submittedOrder(t, domain.Limit, domain.Long, 100)
	candles := minuteCandles([2]int64{100, 103})

	outcome, err := EvaluateFill(o, candles)
	require.NoError(t, err)
	assert.True(t, outcome.Filled)
}

func TestEvaluateFill_MarketFillsOnFirstCandle(t *testing.T) {
	for _, dir := range []domain.Direction{domain.Long, domain.Short} {
		o := submittedOrder(t, domain.Market, dir, 0)
		candles := minuteCandles([2]int64{105, 110}, [2]int64{90, 95})

		outcome, err := EvaluateFill(o, candles)
		require.NoError(t, err)

		require.True(t, outcome.Filled)
		assert.True(t, outcome.Price.Equal(decimal.NewFromInt(110)), "market fills at first candle high")
		assert.Equal(t, candles[0].CloseTimestamp, outcome.Timestamp)
	}
}

func TestEvaluateFill_EmptyWindow(t *testing.T) {
	o := submittedOrder(t, domain.Market, domain.Long, 0)

	outcome, err := EvaluateFill(o, nil)
	require.NoError(t, err)
	assert.False(t, outcome.Filled, "no candles means no decision yet")
}

func TestEvaluateFill_RequiresActiveStatus(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.StatusPending, domain.StatusFilled, domain.StatusCancelled, domain.StatusTest,
	} {
		o := submittedOrder(t, domain.Limit, domain.Long, 100)
		o.Status = status
		_, err := EvaluateFill(o, minuteCandles([2]int64{90, 110}))
		assert.ErrorIsf(t, err, domain.ErrInvalidStateTransition, "status %s", status)
	}
}

func TestEvaluateFill_PartiallyFilledIsEvaluated(t *testing.T) {
	o := submittedOrder(t, domain.Limit, domain.Long, 100)
	o.Status = domain.StatusPartiallyFilled

	outcome, err := EvaluateFill(o, minuteCandles([2]int64{99, 110}))
	require.NoError(t, err)
	assert.True(t, outcome.Filled)
}

func TestEvaluateFill_UnsupportedTypes(t *testing.T) {
	for _, typ := range []domain.OrderType{domain.OCO, domain.StopMarket} {
		o := submittedOrder(t, domain.Limit, domain.Long, 100)
		o.Type = typ
		_, err := EvaluateFill(o, minuteCandles([2]int64{90, 110}))
		assert.ErrorIsf(t, err, domain.ErrUnsupportedOrderType, "type %s", typ)
	}
}

func TestEvaluateFill_DoesNotMutateOrder(t *testing.T) {
	o := submittedOrder(t, domain.Limit, domain.Long, 100)
	before := *o

	_, err := EvaluateFill(o, minuteCandles([2]int64{99, 110}))
	require.NoError(t, err)

	assert.Equal(t, before.Status, o.Status)
	assert.Nil(t, o.ExecutionTimestamp)
	assert.Empty(t, o.Trades)
}

func TestProperty_EvaluateFillDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir := domain.Long
		if rapid.Bool().Draw(t, "short") {
			dir = domain.Short
		}
		typ := domain.Limit
		if rapid.Bool().Draw(t, "market") {
			typ = domain.Market
		}
		price := rapid.Int64Range(1, 1_000_000).Draw(t, "price1")

		n := rapid.IntRange(0, 20).Draw(t, "candles")
		bounds := make([][2]int64, n)
		for i := range bounds {
			low := rapid.Int64Range(1, 1_000_000).Draw(t, "low")
			high := low + rapid.Int64Range(0, 10_000).Draw(t, "spread")
			bounds[i] = [2]int64{low, high}
		}
		candles := minuteCandles(bounds...)

		o := &domain.Order{
			Symbol:    "BTCUSDT",
			Type:      typ,
			Direction: dir,
			Status:    domain.StatusSubmitted,
			Price1:    decimal.NewFromInt(price),
		}

		first, err1 := EvaluateFill(o, candles)
		second, err2 := EvaluateFill(o, candles)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v, %v", err1, err2)
		}
		if first.Filled != second.Filled || !first.Timestamp.Equal(second.Timestamp) || !first.Price.Equal(second.Price) {
			t.Fatalf("evaluate not deterministic: %+v vs %+v", first, second)
		}
		if typ == domain.Market && n > 0 && !first.Filled {
			t.Fatalf("market order did not fill on a non-empty window")
		}
	})
}
