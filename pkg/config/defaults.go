package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservo"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Lock tuning for the per-resource admission critical section. The wait
	// timeout bounds how long a create-booking request blocks behind another
	// holder before surfacing a retryable timeout; the TTL reclaims locks
	// abandoned by crashed holders.
	DefaultLockWaitTimeout  = 5 * time.Second
	DefaultLockPollInterval = 50 * time.Millisecond
	DefaultLockTTL          = 10 * time.Second

	DefaultDefaultResourceCapacity = 1

	DefaultPaginationLimit = 100
)
