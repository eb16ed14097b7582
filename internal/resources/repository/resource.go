package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	resourceserrors "reservo/internal/resources/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"
)

const (
	CollectionName = "Resources"

	operationTimeout = 5 * time.Second
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	FindByProject(ctx context.Context, projectID string, limit int, offset int64) ([]*model.Resource, error)
	CountByProject(ctx context.Context, projectID string) (int64, error)
	Update(ctx context.Context, id string, update *model.ResourceUpdate) error
	Delete(ctx context.Context, id string) error
}

type mongoResourceRepository struct {
	collection *mongo.Collection
}

func NewResourceRepository(cfg *config.Config) ResourceRepository {
	return &mongoResourceRepository{
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, operationTimeout)
}

func (r *mongoResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}
	return nil
}

func (r *mongoResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var resource model.Resource
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resource)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, resourceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}
	return &resource, nil
}

func (r *mongoResourceRepository) FindByProject(ctx context.Context, projectID string, limit int, offset int64) ([]*model.Resource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (r *mongoResourceRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *mongoResourceRepository) Update(ctx context.Context, id string, update *model.ResourceUpdate) error {
	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.DefaultCapacity != nil {
		set["default_capacity"] = *update.DefaultCapacity
	}
	if update.BookingConfig != nil {
		set["booking_config"] = update.BookingConfig
	}
	if update.Metadata != nil {
		set["metadata"] = *update.Metadata
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return resourceserrors.ErrNotFound
	}
	return nil
}

func (r *mongoResourceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return resourceserrors.ErrNotFound
	}
	return nil
}
