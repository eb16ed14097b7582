package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reservo/internal/bookings/events"
	"reservo/pkg/config"
	"reservo/pkg/kafka"
	kafka_config "reservo/pkg/kafka/config"
	kafka_middleware "reservo/pkg/kafka/middleware"
	"reservo/pkg/logger"
)

const (
	ServiceName = "events-worker"

	consumerGroupID = "events-worker"
)

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled {
		cfg.Log.Fatal("Kafka must be enabled for the events worker, set KAFKA_ENABLED=true")
	}

	consumer, err := kafka.NewConsumer(kafkaCfg, events.TopicBookingEvents, consumerGroupID, handleEvent(cfg.Log))
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Events worker running",
		"topic", events.TopicBookingEvents,
		"group_id", consumerGroupID,
		"brokers", kafkaCfg.Brokers,
	)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Events worker stopped")
}

// handleEvent is the audit sink for booking lifecycle events. Decode failures
// are returned so the consumer's retry policy applies.
func handleEvent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode booking event: %w", err)
		}

		log.Info("Booking event received",
			"event_type", msg.GetEventType(),
			"booking_id", event.BookingID,
			"project_id", event.ProjectID,
			"resource_id", event.ResourceID,
			"start_time", event.StartTime,
			"end_time", event.EndTime,
			"quantity", event.Quantity,
			"status", event.Status,
		)
		return nil
	}
}
