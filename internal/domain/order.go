package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstrumentType string
type Direction string
type OrderType string
type QuantityUnit string
type TimeInForce string

const (
	InstrumentSpot InstrumentType = "spot"

	Long  Direction = "long"
	Short Direction = "short"

	Limit      OrderType = "limit"
	Market     OrderType = "market"
	OCO        OrderType = "oco"
	StopMarket OrderType = "stop_market"

	UnitBase    QuantityUnit = "base"
	UnitQuote   QuantityUnit = "quote"
	UnitPercent QuantityUnit = "percent"

	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// Instrument is a tradeable symbol plus its market type.
type Instrument struct {
	Type   InstrumentType
	Symbol string
}

// Quantity is an order size expressed in one of the supported units.
type Quantity struct {
	Amount decimal.Decimal
	Unit   QuantityUnit
}

// Order is the central entity. The simulated handler is its sole mutator;
// once Status reaches a terminal state the order is immutable.
type Order struct {
	ID             string
	ExternalID     string
	InstrumentType InstrumentType
	Symbol         string
	Direction      Direction
	Type           OrderType
	Status         OrderStatus

	// Price1 is the primary trigger/limit price. Price2/Price3 are
	// reserved for multi-leg types (oco, stop_market) which the
	// simulator does not match.
	Price1 decimal.Decimal
	Price2 decimal.Decimal
	Price3 decimal.Decimal

	Quantity Quantity

	// TimeInForce is stored and transported but not enforced by the
	// simulator.
	TimeInForce TimeInForce

	SubmissionTimestamp   *time.Time
	ExecutionTimestamp    *time.Time
	CancellationTimestamp *time.Time

	// Trades is append-only and stays empty until a fill.
	Trades []Trade

	// Opaque venue-specific bags, never interpreted by the core.
	OtherParameters map[string]any
	FullData        map[string]any

	// Version backs the store's compare-and-swap on save.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
