package filevault

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the domain type for entry kinds.
type EntryType string

// Entry kind constants (typed).
const (
	EntryTypeFolder EntryType = "folder"
	EntryTypeFile   EntryType = "file"
	EntryTypeImage  EntryType = "image"
)

// Valid reports whether t is one of the known entry kinds.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeFolder, EntryTypeFile, EntryTypeImage:
		return true
	}
	return false
}

// RootParentID is the sentinel parent reference for top-level entries. An
// Entry whose ParentID equals RootParentID lives at the root of its owner's
// hierarchy.
var RootParentID = uuid.Nil

// Entry represents a node of the folder/file hierarchy: either a container
// (folder) or a content-bearing leaf (file or image).
//
// Invariants, enforced at creation time by the service:
//   - a file or image entry always has a non-empty Locator; a folder never does
//   - ParentID, when not RootParentID, referenced a folder entry at creation
//   - ID is assigned by the repository and never changes
type Entry struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Type      EntryType `json:"type"`
	IsPublic  bool      `json:"is_public"`
	ParentID  uuid.UUID `json:"parent_id"`
	Locator   string    `json:"locator,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFolder reports whether the entry is a container-type entry, eligible to
// be a parent.
func (e *Entry) IsFolder() bool { return e.Type == EntryTypeFolder }

// User is an identity record. Users are issued by an external identity
// subsystem; this service only ever reads them.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
