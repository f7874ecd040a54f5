package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "vallocation_db"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8000"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultPageSize = 10
	DefaultMaxPageSize     = 100

	// A canceled allocation still occupies its date unless operators
	// opt out. The migration builds the unique index to match: covering
	// all statuses when blocking, excluding canceled records when not.
	DefaultCanceledBlocksDate = true

	DefaultKafkaTopic = "fleetalloc.allocations"

	DefaultCacheTTL = 30 * time.Second
)
