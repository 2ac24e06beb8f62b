package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is an OHLC aggregate over a fixed interval. Candles for a
// symbol/interval are totally ordered by OpenTimestamp and cover
// non-overlapping, contiguous windows.
type Candle struct {
	Symbol          string
	IntervalMinutes int
	OpenTimestamp   time.Time
	CloseTimestamp  time.Time
	Open            decimal.Decimal
	High            decimal.Decimal
	Low             decimal.Decimal
	Close           decimal.Decimal
}

// Contains reports whether t falls inside the candle's window.
func (c Candle) Contains(t time.Time) bool {
	return !c.OpenTimestamp.After(t) && !c.CloseTimestamp.Before(t)
}
