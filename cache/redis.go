package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis connection and key layout
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Prefix is prepended to every literal to form the key
	Prefix string
	// TTL is how long an answer is kept; 0 keeps it forever
	TTL time.Duration
}

// DefaultPrefix namespaces cached answers
const DefaultPrefix = "saythenumber:words:"

// RedisStore keeps literal -> word form pairs in Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore and verifies connectivity
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Get returns the cached word form for literal, if present
func (r *RedisStore) Get(ctx context.Context, literal string) (string, bool, error) {
	words, err := r.client.Get(ctx, r.prefix+literal).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return words, true, nil
}

// Set stores the word form for literal and refreshes its TTL
func (r *RedisStore) Set(ctx context.Context, literal, words string) error {
	return r.client.Set(ctx, r.prefix+literal, words, r.ttl).Err()
}

// Close closes the underlying Redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
