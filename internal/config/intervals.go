package config

import "time"

// Worker intervals
const (
	// RedisBackupInterval defines how often dirty routes are flushed to Redis
	RedisBackupInterval = 10 * time.Second

	// PostgresBackupInterval defines how often all routes are persisted to PostgreSQL
	PostgresBackupInterval = 60 * time.Second
)
