// Package cache provides the Redis connection behind the session store and
// the login rate limiter. It supports both embedded Redis (miniredis) and an
// external Redis server.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/util/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var errNotInitialized = common.NewError("redis client not initialized")

var (
	client     *redis.Client
	miniRedis  *miniredis.Miniredis
	ctx        = context.Background()
	isEmbedded = true
)

// InitRedis initializes the Redis client. If redisAddr is empty, starts embedded Redis.
// If redisAddr is provided, connects to the external Redis server.
func InitRedis(redisAddr, password string) error {
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		isEmbedded = true
		logger.Info("Embedded Redis started on ", mr.Addr())
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       0,
	})
	isEmbedded = false

	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
	}
	logger.Info("Connected to external Redis at ", redisAddr)
	return nil
}

// GetClient returns the Redis client instance.
func GetClient() *redis.Client {
	return client
}

// IsEmbedded returns true if using embedded Redis.
func IsEmbedded() bool {
	return isEmbedded
}

// Close closes the Redis connection and stops embedded Redis if running.
func Close() error {
	var err error
	if client != nil {
		err = client.Close()
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return err
}

// Ping checks that the Redis server answers.
func Ping() error {
	if client == nil {
		return errNotInitialized
	}
	return client.Ping(ctx).Err()
}

// IncrWindow increments a counter and starts its expiry window on the first hit.
// A counter found without an expiry gets one, so a failed Expire never
// leaves the window open forever. It returns the counter value after the
// increment.
func IncrWindow(key string, window time.Duration) (int64, error) {
	if client == nil {
		return 0, errNotInitialized
	}

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}

	count := incr.Val()
	if ttl.Val() < 0 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
