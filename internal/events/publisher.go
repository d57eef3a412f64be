// Package events publishes order notifications after checkout.
// Publishing is fire-and-forget: a failed or dropped event never
// affects the checkout that produced it.
package events

import (
	"context"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
)

// RoutingKeyOrderPlaced is the routing key used for placed orders.
const RoutingKeyOrderPlaced = "order.placed"

// OrderPlaced is emitted once per successful checkout.
type OrderPlaced struct {
	SessionID  string      `json:"session_id"`
	Order      model.Order `json:"order"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// OrderPublisher delivers OrderPlaced events to a broker.
type OrderPublisher interface {
	Publish(ctx context.Context, event OrderPlaced) error
	Close() error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

// Publish implements OrderPublisher.
func (NoopPublisher) Publish(context.Context, OrderPlaced) error { return nil }

// Close implements OrderPublisher.
func (NoopPublisher) Close() error { return nil }
