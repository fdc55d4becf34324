package filevault

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ParentID is the transport form of a parent reference: either the root
// sentinel (absent, "" or 0, in string or number form) or an entry
// identifier.
type ParentID string

// UnmarshalJSON accepts both string and numeric forms so clients may send
// parentId as the literal 0 or as an identifier string.
func (p *ParentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = ParentID(n.String())
		return nil
	}
	return fmt.Errorf("parent id must be a string or a number")
}

// IsRoot reports whether p names the root sentinel.
func (p ParentID) IsRoot() bool { return p == "" || p == "0" }

// Resolve returns the identifier form of p. A value that cannot name any
// entry resolves to ErrParentNotFound, the same outcome as a well-formed id
// with no matching entry.
func (p ParentID) Resolve() (uuid.UUID, error) {
	if p.IsRoot() {
		return RootParentID, nil
	}
	id, err := uuid.Parse(string(p))
	if err != nil {
		return uuid.Nil, ErrParentNotFound
	}
	return id, nil
}

// UploadRequest carries one upload transaction. Token arrives out-of-band
// (X-Token header) and is therefore excluded from the JSON body.
type UploadRequest struct {
	Token    string    `json:"-"`
	Name     string    `json:"name"`
	Type     EntryType `json:"type"`
	ParentID ParentID  `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}

// ValidateShape checks the payload shape. It is a pure function of the
// request and reports the first failing field in the order name, type, data.
func (r UploadRequest) ValidateShape() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if !r.Type.Valid() {
		return ErrMissingType
	}
	if r.Type != EntryTypeFolder && r.Data == "" {
		return ErrMissingData
	}
	return nil
}

// DecodeData returns the raw bytes of the transport-encoded content payload.
func (r UploadRequest) DecodeData() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return raw, nil
}

// GetEntryRequest fetches a single entry owned by the token's user.
type GetEntryRequest struct {
	Token string
	ID    uuid.UUID
}

// ListEntriesRequest pages through the token's user's entries under a parent.
type ListEntriesRequest struct {
	Token    string
	ParentID ParentID
	Page     int
}

// SetVisibilityRequest toggles an entry's public flag.
type SetVisibilityRequest struct {
	Token    string
	ID       uuid.UUID
	IsPublic bool
}

// DownloadRequest streams an entry's content. Token may be empty for public
// entries.
type DownloadRequest struct {
	Token string
	ID    uuid.UUID
}
