package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The API layer maps these to HTTP status codes.
var (
	ErrInvalidOrderSpec       = errors.New("invalid order spec")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrOrderNotFound          = errors.New("order not found")
	ErrVersionConflict        = errors.New("order version conflict")
	ErrUnsupportedOrderType   = errors.New("order type not supported by simulator")
)
