package filevault

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingName indicates an upload payload without a display name
	ErrMissingName = errors.New("missing name")

	// ErrMissingType indicates an upload payload whose type is absent or not a
	// known entry kind (the two cases are deliberately indistinguishable)
	ErrMissingType = errors.New("missing type")

	// ErrMissingData indicates a file/image upload without content
	ErrMissingData = errors.New("missing data")

	// ErrInvalidData indicates content that is not valid base64
	ErrInvalidData = errors.New("invalid data encoding")

	// ErrParentNotFound indicates a claimed parent that does not exist
	ErrParentNotFound = errors.New("parent not found")

	// ErrParentNotFolder indicates a claimed parent that is not a folder
	ErrParentNotFolder = errors.New("parent is not a folder")

	// ErrUnauthorized indicates an absent, unknown or expired token, or a
	// session whose user no longer exists
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEntryNotFound indicates an entry was not found
	ErrEntryNotFound = errors.New("entry not found")

	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound indicates no live session exists for a token
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoContent indicates a download was requested for a folder
	ErrNoContent = errors.New("folder has no content")
)

// StoreError represents a connectivity or query failure in one of the backing
// stores (metadata repository or session store). It is never produced for
// "not found" conditions; those use the sentinel errors above.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed on %s: %v", e.Op, e.Store, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// StorageError represents an IO failure in a blob storage backend.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
