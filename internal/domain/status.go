package domain

import "fmt"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusTest            OrderStatus = "test"
	StatusPending         OrderStatus = "pending"
	StatusSubmitted       OrderStatus = "submitted"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCancelled       OrderStatus = "cancelled"
)

// legalTransitions enumerates every valid status change. StatusTest is a
// sentinel for synthetic orders and participates in no transitions;
// filled and cancelled are terminal.
var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusSubmitted, StatusCancelled},
	StatusSubmitted:       {StatusPartiallyFilled, StatusFilled, StatusCancelled},
	StatusPartiallyFilled: {StatusFilled, StatusCancelled},
}

// Terminal reports whether no further transitions are valid from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// Active reports whether the order may still produce a fill.
func (s OrderStatus) Active() bool {
	return s == StatusSubmitted || s == StatusPartiallyFilled
}

// CanTransition reports whether s -> next is a legal status change.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, to := range legalTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to next, or returns
// ErrInvalidStateTransition when the change is not legal. Transitions are
// monotonic: an order never regresses to an earlier state.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, o.Status, next)
	}
	o.Status = next
	return nil
}
