// Package events публикует события жизненного цикла заказов.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fastfood/internal/model"
)

// Типы событий.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event описывает событие заказа в том виде, в котором оно уходит в топик.
type Event struct {
	Type         string            `json:"type"`
	OrderID      string            `json:"orderId"`
	RestaurantID string            `json:"restaurantId"`
	CustomerID   string            `json:"customerId"`
	Status       model.OrderStatus `json:"status"`
	Total        decimal.Decimal   `json:"total"`
	At           time.Time         `json:"at"`
}

// NewOrderEvent строит событие указанного типа по заказу.
func NewOrderEvent(typ string, o *model.Order, at time.Time) Event {
	return Event{
		Type:         typ,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		Total:        o.Total,
		At:           at.UTC(),
	}
}

// Publisher отправляет события заказов.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// messageWriter описывает часть kafka.Writer, используемую издателем.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует события в Kafka. Ключом сообщения служит идентификатор ресторана,
// поэтому события одного ресторана попадают в одну партицию и сохраняют порядок.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher создаёт издателя для указанных брокеров и топика.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish сериализует событие в JSON и отправляет его.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.RestaurantID),
		Value: payload,
		Time:  e.At,
	})
	if err != nil {
		return fmt.Errorf("write event %s: %w", e.Type, err)
	}

	return nil
}

// Close дожидается отправки буферизованных сообщений и закрывает соединения.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher отбрасывает события. Используется, когда брокеры не настроены.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close ничего не делает.
func (NopPublisher) Close() error { return nil }
