package domain

import "time"

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "CREATED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

// HighValueThreshold is the amount above which an order counts as a
// high-value business transaction.
const HighValueThreshold = 1000.0

// Order represents a customer order moving through the
// CREATED -> PROCESSING -> COMPLETED state machine, with CANCELLED and
// FAILED as terminal side exits.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Amount     float64     `json:"amount"`
	Currency   string      `json:"currency"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// IsHighValue reports whether the order amount exceeds the business
// threshold.
func (o *Order) IsHighValue() bool {
	return o.Amount > HighValueThreshold
}

// IsProcessable reports whether the order can enter or continue processing.
func (o *Order) IsProcessable() bool {
	return o.Status == OrderStatusCreated || o.Status == OrderStatusProcessing
}

// IsTerminal reports whether no further transitions are legal.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusFailed
}

// CanTransitionTo encodes the order state machine. Transitions are monotonic
// except for CANCELLED and FAILED, which are reachable from any non-terminal
// state; a completed order cannot be cancelled. Cancelling a FAILED order is
// allowed so stuck orders can be closed out.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderStatusProcessing:
		return s == OrderStatusCreated || s == OrderStatusProcessing
	case OrderStatusCompleted:
		return s == OrderStatusProcessing
	case OrderStatusCancelled:
		return s != OrderStatusCompleted && s != OrderStatusCancelled
	case OrderStatusFailed:
		return !s.IsTerminal()
	default:
		return false
	}
}
