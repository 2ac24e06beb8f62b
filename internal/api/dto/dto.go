package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

type QuantityUnit string

const (
	Base    QuantityUnit = "base"
	Quote   QuantityUnit = "quote"
	Percent QuantityUnit = "percent"
)

type SubmitOrderRequest struct {
	Symbol    string          `json:"symbol" binding:"required"`
	Direction Direction       `json:"direction" binding:"required"`
	Type      OrderType       `json:"type" binding:"required"`
	Price     decimal.Decimal `json:"price,omitempty"` // required for limit orders
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      QuantityUnit    `json:"unit,omitempty"`
}

type SubmitOrderResponse struct {
	Order Order `json:"order"`
}

type CheckOrderResponse struct {
	Order  *Order `json:"order,omitempty"`
	Filled bool   `json:"filled"`
}

type CancelOrderResponse struct {
	Order Order `json:"order"`
}

type CancelAllResponse struct {
	Cancelled []Order `json:"cancelled"`
	Message   string  `json:"message,omitempty"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type ActiveOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type Trade struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

type Order struct {
	ID                    string          `json:"id"`
	ExternalID            string          `json:"external_id,omitempty"`
	InstrumentType        string          `json:"instrument_type"`
	Symbol                string          `json:"symbol"`
	Direction             Direction       `json:"direction"`
	Type                  OrderType       `json:"type"`
	Status                string          `json:"status"`
	Price1                decimal.Decimal `json:"price1"`
	Quantity              decimal.Decimal `json:"quantity"`
	Unit                  QuantityUnit    `json:"unit"`
	TimeInForce           string          `json:"time_in_force"`
	SubmissionTimestamp   *time.Time      `json:"submission_timestamp,omitempty"`
	ExecutionTimestamp    *time.Time      `json:"execution_timestamp,omitempty"`
	CancellationTimestamp *time.Time      `json:"cancellation_timestamp,omitempty"`
	Trades                []Trade         `json:"trades,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}
