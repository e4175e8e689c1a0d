package cache

import (
	"context"
	"errors"
	"time"
)

const BaseTTL = 12 * time.Hour

var ErrCacheMiss = errors.New("cache miss")

type CachedStorage interface {
	Set(key string, value any, ttl time.Duration) error
	Get(key string) (string, error)
	Stop(ctx context.Context) error
}
