package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single simulated execution appended to an order on fill.
type Trade struct {
	Price     decimal.Decimal
	Timestamp time.Time
}
