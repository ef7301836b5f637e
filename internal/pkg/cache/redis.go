// Package cache provides a small TTL cache on Redis for read-mostly
// collaborator responses.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores string payloads under namespaced keys. Get returns ""
// on a miss; a miss is not an error.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Key(operation, id string) string
}

type redisCache struct {
	client  *redis.Client
	service string
}

// NewRedis connects a cache to the Redis instance at addr. Keys are
// prefixed with the service name to keep tenants apart.
func NewRedis(addr, service string) Cache {
	return &redisCache{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		service: service,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCache) Key(operation, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.service, operation, id)
}
