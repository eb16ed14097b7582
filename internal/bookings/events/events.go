package events

import (
	"context"
	"time"

	"reservo/pkg/kafka"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

const (
	TopicBookingEvents = "booking-events"

	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	source = "bookings"
)

// BookingEvent is the payload published after a booking changes state. Events
// are keyed by resource so consumers see per-resource ordering.
type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	ProjectID  string    `json:"project_id"`
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort: events
// fire after the transaction commits, and a broker failure must not undo an
// admitted booking. A nil Publisher or producer disables publishing.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: log}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil || p.producer == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.ResourceID).
		WithEventType(eventType).
		WithSource(source).
		WithValue(BookingEvent{
			BookingID:  booking.ID,
			ProjectID:  booking.ProjectID,
			ResourceID: booking.ResourceID,
			StartTime:  booking.StartTime,
			EndTime:    booking.EndTime,
			Quantity:   booking.Quantity,
			Status:     booking.Status,
			OccurredAt: time.Now().UTC(),
		}).
		Build()
	if err != nil {
		p.log.Warn("Failed to build booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
	}
}
