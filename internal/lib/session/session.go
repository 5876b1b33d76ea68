// Package session tracks the active bearer token of each user in Redis so
// tokens can be revoked before they expire.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyFmt = "session:%d"

// ErrNoSession is returned when a user has no active session.
var ErrNoSession = errors.New("no active session")

// Store records one active token per user.
type Store interface {
	Set(ctx context.Context, userID int, token string, ttl time.Duration) error
	Get(ctx context.Context, userID int) (string, error)
	Delete(ctx context.Context, userID int) error
}

// RedisStore is the Redis-backed Store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, userID int, token string, ttl time.Duration) error {
	return s.client.Set(ctx, fmt.Sprintf(keyFmt, userID), token, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID int) (string, error) {
	token, err := s.client.Get(ctx, fmt.Sprintf(keyFmt, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	return token, err
}

func (s *RedisStore) Delete(ctx context.Context, userID int) error {
	return s.client.Del(ctx, fmt.Sprintf(keyFmt, userID)).Err()
}
