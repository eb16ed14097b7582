package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	"reservo/pkg/model"
)

const (
	CollectionName = "Bookings"

	operationTimeout = 5 * time.Second
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	CreateMany(ctx context.Context, bookings []*model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindOverlapping(ctx context.Context, projectID, resourceID string, rng model.TimeRange) ([]*model.Booking, error)
	FindByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error)
	CountByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewBookingRepository(cfg *config.Config) BookingRepository {
	client := cfg.Client.Mongo
	return &mongoBookingRepository{
		collection: client.Database(cfg.MongoDatabaseName).Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(client),
	}
}

// withTimeout bounds standalone operations. Calls made with a session context
// must not be re-wrapped or they would detach from the transaction.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, operationTimeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) CreateMany(ctx context.Context, bookings []*model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	docs := make([]any, len(bookings))
	for i, b := range bookings {
		docs[i] = b
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert bookings: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// FindOverlapping returns the active bookings of one resource intersecting a
// half-open range. Two ranges overlap iff each starts before the other ends.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, projectID, resourceID string, rng model.TimeRange) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"project_id":  projectID,
		"resource_id": resourceID,
		"status":      model.StatusActive,
		"start_time":  bson.M{"$lt": rng.End},
		"end_time":    bson.M{"$gt": rng.Start},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

func resourceWindowFilter(projectID, resourceID string, startTime, endTime *time.Time) bson.M {
	filter := bson.M{
		"project_id":  projectID,
		"resource_id": resourceID,
	}
	if startTime != nil {
		filter["end_time"] = bson.M{"$gt": *startTime}
	}
	if endTime != nil {
		filter["start_time"] = bson.M{"$lt": *endTime}
	}
	return filter
}

func (r *mongoBookingRepository) FindByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, resourceWindowFilter(projectID, resourceID, startTime, endTime), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) CountByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, resourceWindowFilter(projectID, resourceID, startTime, endTime))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
