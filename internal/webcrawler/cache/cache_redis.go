package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

type RedisStorage struct {
	Logger *zap.SugaredLogger
	Client *redis.Client
}

func NewRedisStorage(client *redis.Client, logger *zap.SugaredLogger) *RedisStorage {
	return &RedisStorage{
		Client: client,
		Logger: logger,
	}
}

func (c *RedisStorage) Set(key string, value any, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisStorage) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}

	return val, err
}

func (c *RedisStorage) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- c.Client.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
