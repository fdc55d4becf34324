package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/filevault/filevault/pkg/filevault"
)

// Tokens are stored under auth_<token>, the key shape the login flow writes.
const keyPrefix = "auth_"

// Store implements filevault.SessionStore on Redis. Expiry is store-managed
// through key TTLs.
type Store struct {
	client *redis.Client
}

// New creates a session store over an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, filevault.ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, &filevault.StoreError{Store: "redis", Op: "get", Err: err}
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		// A corrupted session is unusable; treat it like a missing one.
		return uuid.Nil, filevault.ErrSessionNotFound
	}
	return userID, nil
}

func (s *Store) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return &filevault.StoreError{Store: "redis", Op: "set", Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return &filevault.StoreError{Store: "redis", Op: "delete", Err: err}
	}
	return nil
}
