// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"food-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle transition.
type EventType string

const (
	OrderCreated EventType = "order.created"
	OrderUpdated EventType = "order.updated"
	OrderDeleted EventType = "order.deleted"
)

// EventVersion is the envelope schema version.
const EventVersion = 1

// Producer identifies this service in emitted envelopes.
const Producer = "food-orders-api"

// Envelope wraps every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     EventType       `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

// ItemPayload is one order line inside an event.
type ItemPayload struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPayload is the body of every order event.
type OrderPayload struct {
	OrderID int64           `json:"order_id"`
	UserID  int64           `json:"user_id"`
	Status  string          `json:"status"`
	Total   decimal.Decimal `json:"total"`
	Items   []ItemPayload   `json:"items"`
}

// Publisher delivers envelopes to a message broker.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// NewOrderEvent builds an envelope describing order. The correlation id is
// the order id so consumers can group events for the same order.
func NewOrderEvent(eventType EventType, order *model.Order, occurredAt time.Time) (Envelope, error) {
	payload := OrderPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Total,
		Items:   make([]ItemPayload, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, ItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode event payload: %w", err)
	}

	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  EventVersion,
		OccurredAt:    occurredAt.UTC(),
		Producer:      Producer,
		CorrelationID: strconv.FormatInt(order.ID, 10),
		Payload:       raw,
	}, nil
}

// NopPublisher discards every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }

func (NopPublisher) Close() error { return nil }
