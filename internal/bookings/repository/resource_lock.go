package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/config"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

const LockCollectionName = "Resource_locks"

// ReleaseFunc frees an acquired lock. Safe to defer; release failures are
// logged, not returned, because the TTL index reclaims the document anyway.
type ReleaseFunc func()

// ResourceLockRepository serializes booking admission per resource. Acquire
// blocks until the lock is free or LockWaitTimeout elapses, returning
// ErrLockWaitTimeout in the latter case.
type ResourceLockRepository interface {
	Acquire(ctx context.Context, resourceID string) (ReleaseFunc, error)
}

type mongoResourceLockRepository struct {
	collection   *mongo.Collection
	log          *logger.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration
	ttl          time.Duration
}

func NewResourceLockRepository(cfg *config.Config) ResourceLockRepository {
	return &mongoResourceLockRepository{
		collection:   cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(LockCollectionName),
		log:          cfg.Log,
		waitTimeout:  cfg.LockWaitTimeout,
		pollInterval: cfg.LockPollInterval,
		ttl:          cfg.LockTTL,
	}
}

// Acquire takes the advisory lock by inserting a document whose _id is unique
// per resource. A duplicate-key error means another request holds the lock;
// we poll until the deadline. Mongo's TTL monitor only sweeps every 60s, so
// expired documents are deleted inline rather than waited out.
func (r *mongoResourceLockRepository) Acquire(ctx context.Context, resourceID string) (ReleaseFunc, error) {
	lockID := "resource_lock_" + resourceID
	deadline := time.Now().Add(r.waitTimeout)

	for {
		now := time.Now()
		lock := &model.ResourceLock{
			ID:        lockID,
			ExpiresAt: now.Add(r.ttl),
			CreatedAt: now,
		}

		_, err := r.collection.InsertOne(ctx, lock)
		if err == nil {
			return r.releaseFunc(lockID), nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to acquire resource lock: %w", err)
		}

		if _, derr := r.collection.DeleteOne(ctx, bson.M{
			"_id":        lockID,
			"expires_at": bson.M{"$lt": now},
		}); derr != nil {
			return nil, fmt.Errorf("failed to reap expired resource lock: %w", derr)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrLockWaitTimeout, resourceID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

func (r *mongoResourceLockRepository) releaseFunc(lockID string) ReleaseFunc {
	return func() {
		// Fresh context: a cancelled request must still give the lock back.
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
			r.log.Warn("Failed to release resource lock; TTL will reclaim it",
				"lock_id", lockID,
				"error", err,
			)
		}
	}
}
