package filevault

import (
	"context"
	"errors"
	"fmt"
)

// TokenResolver maps an opaque bearer token to a user identity through a
// two-stage lookup: session store first, then the user record the session
// points at. It performs no mutation.
type TokenResolver struct {
	sessions SessionStore
	users    UserRepository
}

// NewTokenResolver creates a resolver over the given collaborators.
func NewTokenResolver(sessions SessionStore, users UserRepository) *TokenResolver {
	return &TokenResolver{sessions: sessions, users: users}
}

// Resolve returns the authenticated user for token.
//
// An unset, unknown or expired token, or a session pointing at a user that no
// longer exists, all yield an error wrapping ErrUnauthorized; the underlying
// cause (ErrSessionNotFound, ErrUserNotFound) stays reachable through
// errors.Is. Store connectivity failures surface as *StoreError and are never
// conflated with the unauthenticated outcome.
func (r *TokenResolver) Resolve(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	userID, err := r.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, err
	}

	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, err
	}

	return user, nil
}
