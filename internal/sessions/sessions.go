// Package sessions stores opaque auth tokens in Redis.
package sessions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore maps session tokens to user ids
type TokenStore interface {
	Issue(ctx context.Context, userID int, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (int, error)
	Revoke(ctx context.Context, token string) error
}

// RedisStore implements TokenStore over Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at the given address
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Issue creates a fresh token for the user, valid for ttl
func (s *RedisStore) Issue(ctx context.Context, userID int, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}

// Resolve returns the user id the token belongs to, or 0 if the token is
// unknown or expired
func (s *RedisStore) Resolve(ctx context.Context, token string) (int, error) {
	val, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up session token: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	return userID, nil
}

// Revoke deletes the token
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return "session:" + token
}
