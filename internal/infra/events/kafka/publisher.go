package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("events.kafka: failed to marshal event")

	// ErrWrite возвращается, когда событие не удалось записать в Kafka
	ErrWrite = errors.New("events.kafka: failed to write message")
)

// MessageWriter интерфейс записи сообщений (*kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher публикует события жизненного цикла записей в Kafka
type Publisher struct {
	writer MessageWriter
}

// NewPublisher создает издателя для брокеров brokers и топика topic
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

// NewPublisherWithWriter создает издателя поверх готового writer
func NewPublisherWithWriter(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// eventPayload формат сообщения в топике
type eventPayload struct {
	EventID       string  `json:"event_id"`
	Type          string  `json:"type"`
	AppointmentID int64   `json:"appointment_id"`
	StaffID       int64   `json:"staff_id"`
	ServiceID     int64   `json:"service_id"`
	Status        string  `json:"status"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	PreviousStart *string `json:"previous_start_at,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

// Publish записывает событие. Ключ сообщения id мастера, чтобы события одного мастера шли по порядку
func (p *Publisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	eventID := uuid.NewString()

	payload := eventPayload{
		EventID:       eventID,
		Type:          string(event.Type),
		AppointmentID: event.AppointmentID,
		StaffID:       event.StaffID,
		ServiceID:     event.ServiceID,
		Status:        string(event.Status),
		StartAt:       event.StartAt.Format(time.RFC3339),
		EndAt:         event.EndAt.Format(time.RFC3339),
		OccurredAt:    event.OccurredAt.Format(time.RFC3339),
	}
	if event.PreviousStart != nil {
		prev := event.PreviousStart.Format(time.RFC3339)
		payload.PreviousStart = &prev
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.StaffID, 10)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s appointment=%d: %v", ErrWrite, event.Type, event.AppointmentID, err)
	}
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher используется, когда Kafka выключена
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, domain.AppointmentEvent) error {
	return nil
}

// Close ничего не делает
func (NopPublisher) Close() error {
	return nil
}
