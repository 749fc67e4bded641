package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tutorbook/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event is a booking lifecycle notification. Delivery is best-effort:
// a lost event never fails the booking or payment flow that emitted it.
type Event struct {
	BookingID  uuid.UUID `json:"booking_id"`
	StudentID  uuid.UUID `json:"student_id"`
	TeacherID  uuid.UUID `json:"teacher_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventBookingRequested   = "booking.requested"
	EventBookingApproved    = "booking.approved"
	EventBookingRejected    = "booking.rejected"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.reschedule_requested"
	EventBookingPaid        = "booking.paid"
	EventBookingCompleted   = "booking.completed"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaDispatcher struct {
	logger *slog.Logger
	writer kafkaWriter
	topic  string
}

func NewKafkaDispatcher(logger *slog.Logger, cfg config.NotifyConfig) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to deliver notification events",
					"topic", cfg.Topic, "count", len(messages), "error", err)
			}
		},
	}

	return &KafkaDispatcher{logger: logger, writer: writer, topic: cfg.Topic}
}

// Dispatch publishes the event keyed by booking so per-booking ordering
// holds within a partition. Errors are logged, never returned.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		d.logger.Error("failed to marshal notification event", "kind", ev.Kind, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.BookingID.String()),
		Value: value,
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		d.logger.Error("failed to enqueue notification event",
			"topic", d.topic, "kind", ev.Kind, "booking_id", ev.BookingID, "error", err)
	}
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
