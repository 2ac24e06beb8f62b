package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewMarketOrder builds a pending market order. Market orders carry no
// trigger price; Price1 is ignored by the simulator for them.
func NewMarketOrder(instrument Instrument, quantity Quantity, direction Direction) (*Order, error) {
	return newOrder(instrument, Market, decimal.Decimal{}, quantity, direction)
}

// NewLimitOrder builds a pending limit order triggered at price.
func NewLimitOrder(instrument Instrument, price decimal.Decimal, quantity Quantity, direction Direction) (*Order, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: limit price must be positive, got %s", ErrInvalidOrderSpec, price)
	}
	return newOrder(instrument, Limit, price, quantity, direction)
}

func newOrder(instrument Instrument, typ OrderType, price decimal.Decimal, quantity Quantity, direction Direction) (*Order, error) {
	if instrument.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidOrderSpec)
	}
	if quantity.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidOrderSpec, quantity.Amount)
	}
	switch quantity.Unit {
	case UnitBase, UnitQuote, UnitPercent:
	default:
		return nil, fmt.Errorf("%w: unknown quantity unit %q", ErrInvalidOrderSpec, quantity.Unit)
	}
	switch direction {
	case Long, Short:
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidOrderSpec, direction)
	}

	instrumentType := instrument.Type
	if instrumentType == "" {
		instrumentType = InstrumentSpot
	}

	return &Order{
		ID:             uuid.NewString(),
		InstrumentType: instrumentType,
		Symbol:         instrument.Symbol,
		Direction:      direction,
		Type:           typ,
		Status:         StatusPending,
		Price1:         price,
		Quantity:       quantity,
		TimeInForce:    GTC,
		CreatedAt:      time.Now(),
	}, nil
}
