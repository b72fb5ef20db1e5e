package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"created to processing", OrderStatusCreated, OrderStatusProcessing, true},
		{"processing to processing", OrderStatusProcessing, OrderStatusProcessing, true},
		{"processing to completed", OrderStatusProcessing, OrderStatusCompleted, true},
		{"created to completed skips processing", OrderStatusCreated, OrderStatusCompleted, false},
		{"completed to processing", OrderStatusCompleted, OrderStatusProcessing, false},

		{"created to cancelled", OrderStatusCreated, OrderStatusCancelled, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"failed to cancelled", OrderStatusFailed, OrderStatusCancelled, true},
		{"completed to cancelled", OrderStatusCompleted, OrderStatusCancelled, false},
		{"cancelled to cancelled", OrderStatusCancelled, OrderStatusCancelled, false},

		{"created to failed", OrderStatusCreated, OrderStatusFailed, true},
		{"processing to failed", OrderStatusProcessing, OrderStatusFailed, true},
		{"completed to failed", OrderStatusCompleted, OrderStatusFailed, false},
		{"cancelled to failed", OrderStatusCancelled, OrderStatusFailed, false},
		{"failed to failed", OrderStatusFailed, OrderStatusFailed, false},

		{"anything to created", OrderStatusProcessing, OrderStatusCreated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderIsHighValue(t *testing.T) {
	assert.False(t, (&Order{Amount: 999.99}).IsHighValue())
	assert.False(t, (&Order{Amount: 1000.0}).IsHighValue(), "threshold itself is not high-value")
	assert.True(t, (&Order{Amount: 1000.01}).IsHighValue())
}

func TestOrderIsProcessable(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusCreated}).IsProcessable())
	assert.True(t, (&Order{Status: OrderStatusProcessing}).IsProcessable())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).IsProcessable())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).IsProcessable())
	assert.False(t, (&Order{Status: OrderStatusFailed}).IsProcessable())
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusCreated.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusFailed.IsTerminal())
}
