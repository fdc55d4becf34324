package filevault

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// EntryRepository defines the interface for entry metadata persistence.
type EntryRepository interface {
	// CreateEntry inserts a new entry and assigns its identifier.
	CreateEntry(ctx context.Context, entry *Entry) error

	// GetEntry returns an entry by id, or ErrEntryNotFound.
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)

	// ListEntries returns the owner's entries under the given parent,
	// newest first. RootParentID selects top-level entries.
	ListEntries(ctx context.Context, ownerID, parentID uuid.UUID, limit, offset int) ([]*Entry, error)

	// UpdateEntry persists mutable entry fields (visibility, timestamps).
	UpdateEntry(ctx context.Context, entry *Entry) error
}

// UserRepository defines read access to identity records.
type UserRepository interface {
	// GetUser returns a user by id, or ErrUserNotFound.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// SessionStore maps opaque bearer tokens to user identifiers with a
// store-managed expiry. The upload path only reads sessions; Set and Delete
// exist for the external login flow and for tests.
type SessionStore interface {
	// Get returns the user id a token resolves to, or ErrSessionNotFound for
	// unknown or expired tokens.
	Get(ctx context.Context, token string) (uuid.UUID, error)

	// Set records a session for token with the given time to live.
	Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error

	// Delete destroys a session.
	Delete(ctx context.Context, token string) error
}

// BlobStore defines the interface for durable content storage backends.
// Write never overwrites: callers supply freshly generated keys, and backends
// reject keys that already exist.
type BlobStore interface {
	// Write materializes the reader's bytes under key and returns an opaque
	// locator that Open accepts.
	Write(ctx context.Context, key string, r io.Reader) (string, error)

	// Open returns the bytes previously written under locator.
	Open(ctx context.Context, locator string) (io.ReadCloser, error)

	// Delete removes the object behind locator.
	Delete(ctx context.Context, locator string) error
}
