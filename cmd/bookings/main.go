package main

import (
	"reservo/internal/bookings/events"
	"reservo/internal/bookings/handler"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/service"
	"reservo/internal/bookings/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
	"reservo/pkg/idgen"
	"reservo/pkg/kafka"
	kafka_config "reservo/pkg/kafka/config"
	kafka_middleware "reservo/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting bookings service")
	bookingService := initServices(cfg)

	serverApp := app.NewApplication(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingRepo := repository.NewBookingRepository(cfg)
	resourceReader := repository.NewResourceReader(cfg)
	lockRepo := repository.NewResourceLockRepository(cfg)

	bookingService := service.NewBookingService(
		cfg,
		bookingRepo,
		resourceReader,
		lockRepo,
		validator.NewBookingValidator(),
		idgen.NewUUIDGenerator(),
		initPublisher(cfg),
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config) *events.Publisher {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka publishing disabled")
		return events.NewPublisher(nil, cfg.Log)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicBookingEvents)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka publisher initialized", "topic", events.TopicBookingEvents, "brokers", kafkaCfg.Brokers)
	return events.NewPublisher(producer, cfg.Log)
}
