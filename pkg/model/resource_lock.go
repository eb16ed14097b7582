package model

import "time"

// ResourceLock is an advisory lock document keyed by resource. Holding the
// lock serializes create-booking admission for that resource; ExpiresAt backs
// a TTL index that reclaims locks abandoned by crashed holders.
type ResourceLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
