package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/fastfood/internal/model"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &stubWriter{}
	p := &KafkaPublisher{writer: w}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := &model.Order{
		ID:           "o-1",
		RestaurantID: "r-1",
		CustomerID:   "c-1",
		Status:       model.OrderStatusOrdered,
		Total:        decimal.RequireFromString("12.50"),
	}

	require.NoError(t, p.Publish(context.Background(), NewOrderEvent(TypeOrderCreated, order, at)))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "r-1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order.created", got["type"])
	assert.Equal(t, "o-1", got["orderId"])
	assert.Equal(t, "ordered", got["status"])
	assert.Equal(t, "12.5", got["total"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	p := &KafkaPublisher{writer: &stubWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), Event{Type: TypeOrderStatusChanged})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.status_changed")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
