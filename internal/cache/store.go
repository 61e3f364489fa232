package cache

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string key-value store for transcriptions.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Open returns the store for driver, or nil for "none" and "".
func Open(driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverRedis:
		return NewRedisStore(dsn)
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", driver)
	}
}
