package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	// Invalidations counts Delete calls. A reader that fills the cache after
	// a miss compares it before and after to detect a concurrent invalidation.
	Invalidations() uint64
	Close() error
}

type redisCache struct {
	client        *redis.Client
	cb            *gobreaker.CircuitBreaker
	invalidations atomic.Uint64
}

// NewRedisCache creates a new Redis cache client. Calls go through a circuit
// breaker so a flapping Redis degrades to cache misses instead of slow requests.
func NewRedisCache(redisURL string, log logrus.FieldLogger) (Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// If URL parsing fails, try as simple host:port
		opt = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisCache(client, log), nil
}

func newRedisCache(client *redis.Client, log logrus.FieldLogger) *redisCache {
	st := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("cache circuit breaker state changed")
		},
	}
	return &redisCache{client: client, cb: gobreaker.NewCircuitBreaker(st)}
}

// Get retrieves a value from cache
func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.cb.Execute(func() (any, error) {
		val, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return val, err
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Set stores a value in cache
func (r *redisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	_, err := r.cb.Execute(func() (any, error) {
		return nil, r.client.Set(ctx, key, value, expiration).Err()
	})
	return err
}

// Delete removes keys from cache
func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	r.invalidations.Add(1)
	_, err := r.cb.Execute(func() (any, error) {
		return nil, r.client.Del(ctx, keys...).Err()
	})
	return err
}

func (r *redisCache) Invalidations() uint64 {
	return r.invalidations.Load()
}

// SetJSON stores a JSON-serializable value in cache
func (r *redisCache) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return r.Set(ctx, key, string(data), expiration)
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (r *redisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
