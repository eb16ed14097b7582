package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	resourceserrors "reservo/internal/resources/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"
)

const ResourceCollectionName = "Resources"

// ResourceReader is the booking service's read-only view of the resource
// catalog; lifecycle operations live in the resources service.
type ResourceReader interface {
	FindByID(ctx context.Context, id string) (*model.Resource, error)
}

type mongoResourceReader struct {
	collection *mongo.Collection
}

func NewResourceReader(cfg *config.Config) ResourceReader {
	return &mongoResourceReader{
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(ResourceCollectionName),
	}
}

func (r *mongoResourceReader) FindByID(ctx context.Context, id string) (*model.Resource, error) {
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
