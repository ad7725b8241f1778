package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/session"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	keys   []string
	events []interface{}
	err    error
}

func (w *fakeWriter) PublishEvent(_ context.Context, key string, event interface{}) error {
	w.keys = append(w.keys, key)
	w.events = append(w.events, event)
	return w.err
}

func sampleOrder() *models.Order {
	return &models.Order{
		OrderID:  "ORD0001",
		PlacedAt: models.NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)),
		Items: []models.CartLine{
			{ProductID: "F001", Name: "Fresh Apples", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 2},
		},
		Total:         decimal.RequireFromString("7.98"),
		PaymentMethod: models.PaymentPayPal,
		Status:        models.OrderStatusConfirmed,
	}
}

func TestOrderPlacedPublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	ep := NewEventPublisher(w)
	ctx := session.WithID(context.Background(), "sess-1")

	require.NoError(t, ep.OrderPlaced(ctx, sampleOrder()))

	require.Len(t, w.events, 1)
	assert.Equal(t, "sess-1/ORD0001", w.keys[0])

	event, ok := w.events[0].(*models.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventTypeOrderPlaced, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, "ORD0001", event.Order.OrderID)
}

func TestOrderPlacedReturnsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("no brokers")}
	ep := NewEventPublisher(w)

	assert.Error(t, ep.OrderPlaced(context.Background(), sampleOrder()))
}

func TestHandleMessageRoutesOrderPlaced(t *testing.T) {
	event := models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeOrderPlaced, Timestamp: time.Now()},
		SessionID: "sess-1",
		Order:     *sampleOrder(),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var got *models.OrderPlacedEvent
	eh := NewEventHandler()
	eh.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		got = e
		return nil
	})

	require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	require.NotNil(t, got)
	assert.Equal(t, "evt-1", got.EventID)
	assert.Equal(t, "ORD0001", got.Order.OrderID)
	assert.Equal(t, "2024-05-01 10:00:00", got.Order.PlacedAt.String())
	assert.True(t, decimal.RequireFromString("7.98").Equal(got.Order.Total))
	assert.Equal(t, 2, got.Order.Items[0].Quantity)
}

func TestHandleMessageIgnoresUnknownTypes(t *testing.T) {
	eh := NewEventHandler()
	called := false
	eh.OnOrderPlaced(func(context.Context, *models.OrderPlacedEvent) error {
		called = true
		return nil
	})

	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"SOMETHING_ELSE"}`)})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	assert.Error(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")}))
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "abc/ORD0007", EventKey("abc", "ORD0007"))
}
