package port

import (
	"context"
	"time"

	"github.com/mkudasheva/paper-broker/internal/domain"
)

// CandleCache caches candle windows keyed by symbol, interval and window
// start. A miss is reported as (nil, nil).
type CandleCache interface {
	SetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time, candles []domain.Candle) error
	GetWindow(ctx context.Context, symbol string, intervalMinutes int, since time.Time) ([]domain.Candle, error)
}
