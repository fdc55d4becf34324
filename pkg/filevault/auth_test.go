package filevault_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/pkg/filevault"
	memoryrepo "github.com/filevault/filevault/pkg/filevault/repo/memory"
	memorysession "github.com/filevault/filevault/pkg/filevault/session/memory"
)

func TestTokenResolver(t *testing.T) {
	ctx := context.Background()
	repo := memoryrepo.New()
	sessions := memorysession.New()
	resolver := filevault.NewTokenResolver(sessions, repo)

	user := &filevault.User{Email: "bob@example.com"}
	require.NoError(t, repo.SaveUser(ctx, user))
	require.NoError(t, sessions.Set(ctx, "T1", user.ID, time.Hour))

	t.Run("resolves live session", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "")
		assert.ErrorIs(t, err, filevault.ErrUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "nope")
		assert.ErrorIs(t, err, filevault.ErrUnauthorized)
		assert.ErrorIs(t, err, filevault.ErrSessionNotFound)
	})

	t.Run("expired session", func(t *testing.T) {
		require.NoError(t, sessions.Set(ctx, "T2", user.ID, -time.Minute))
		_, err := resolver.Resolve(ctx, "T2")
		assert.ErrorIs(t, err, filevault.ErrUnauthorized)
	})

	t.Run("session for vanished user", func(t *testing.T) {
		require.NoError(t, sessions.Set(ctx, "T3", uuid.New(), time.Hour))
		_, err := resolver.Resolve(ctx, "T3")
		assert.ErrorIs(t, err, filevault.ErrUnauthorized)
		assert.ErrorIs(t, err, filevault.ErrUserNotFound)
	})

	t.Run("store fault is not unauthorized", func(t *testing.T) {
		faulty := &faultySessionStore{err: &filevault.StoreError{Store: "redis", Op: "get", Err: errors.New("connection refused")}}
		resolver := filevault.NewTokenResolver(faulty, repo)

		_, err := resolver.Resolve(ctx, "T1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, filevault.ErrUnauthorized)

		var storeErr *filevault.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})
}

type faultySessionStore struct {
	err error
}

func (s *faultySessionStore) Get(ctx context.Context, token string) (uuid.UUID, error) {
	return uuid.Nil, s.err
}

func (s *faultySessionStore) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return s.err
}

func (s *faultySessionStore) Delete(ctx context.Context, token string) error {
	return s.err
}
