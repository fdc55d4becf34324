package filevault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultPageSize is the fixed page size for entry listings.
const DefaultPageSize = 20

// service implements the Service interface
type service struct {
	entries  EntryRepository
	users    UserRepository
	sessions SessionStore
	blobs    BlobStore
	resolver *TokenResolver
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithEntryRepository sets the entry metadata repository.
func WithEntryRepository(repo EntryRepository) Option {
	return func(s *service) {
		s.entries = repo
	}
}

// WithUserRepository sets the identity repository.
func WithUserRepository(repo UserRepository) Option {
	return func(s *service) {
		s.users = repo
	}
}

// WithSessionStore sets the auth session store.
func WithSessionStore(store SessionStore) Option {
	return func(s *service) {
		s.sessions = store
	}
}

// WithBlobStore sets the content storage backend.
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.entries == nil {
		return nil, fmt.Errorf("entry repository is required")
	}
	if s.users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if s.sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	s.resolver = NewTokenResolver(s.sessions, s.users)
	return s, nil
}

// Upload is handled strictly in program order: token, shape, hierarchy, blob,
// metadata. Each step's success is a precondition for the next, and every
// validation failure terminates before any side effect.
func (s *service) Upload(ctx context.Context, req UploadRequest) (*Entry, error) {
	user, err := s.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if err := req.ValidateShape(); err != nil {
		return nil, err
	}

	parentID, err := req.ParentID.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, parentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &Entry{
		OwnerID:   user.ID,
		Name:      req.Name,
		Type:      req.Type,
		IsPublic:  req.IsPublic,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.Type != EntryTypeFolder {
		data, err := req.DecodeData()
		if err != nil {
			return nil, err
		}

		// Blob names carry 122 bits of randomness; collisions are treated
		// as negligible and backends reject reused keys outright.
		key := uuid.New().String()
		locator, err := s.blobs.Write(ctx, key, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		entry.Locator = locator
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		if entry.Locator != "" {
			// The blob write already succeeded, so without cleanup it would
			// be orphaned. A failed delete leaves it for an out-of-band
			// reconciliation sweep.
			if derr := s.blobs.Delete(ctx, entry.Locator); derr != nil {
				slog.Warn("orphaned blob left behind after metadata insert failure",
					"locator", entry.Locator, "error", derr)
			}
		}
		return nil, err
	}

	return entry, nil
}

// validateParent confirms a claimed parent exists and is a folder. The root
// sentinel short-circuits with no lookup. The check is advisory at creation
// time only: nothing prevents the parent from disappearing between this
// lookup and the metadata insert.
func (s *service) validateParent(ctx context.Context, parentID uuid.UUID) error {
	if parentID == RootParentID {
		return nil
	}

	parent, err := s.entries.GetEntry(ctx, parentID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	if !parent.IsFolder() {
		return ErrParentNotFolder
	}
	return nil
}

func (s *service) GetEntry(ctx context.Context, req GetEntryRequest) (*Entry, error) {
	user, err := s.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.GetEntry(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != user.ID {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (s *service) ListEntries(ctx context.Context, req ListEntriesRequest) ([]*Entry, error) {
	user, err := s.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	parentID, err := req.ParentID.Resolve()
	if err != nil {
		// A parent that cannot name any entry yields an empty page rather
		// than an error, matching the read-path contract.
		return []*Entry{}, nil
	}

	page := req.Page
	if page < 0 {
		page = 0
	}

	entries, err := s.entries.ListEntries(ctx, user.ID, parentID, DefaultPageSize, page*DefaultPageSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

func (s *service) SetVisibility(ctx context.Context, req SetVisibilityRequest) (*Entry, error) {
	user, err := s.resolver.Resolve(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.GetEntry(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != user.ID {
		return nil, ErrEntryNotFound
	}

	entry.IsPublic = req.IsPublic
	entry.UpdatedAt = time.Now().UTC()
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Download(ctx context.Context, req DownloadRequest) (io.ReadCloser, *Entry, error) {
	entry, err := s.entries.GetEntry(ctx, req.ID)
	if err != nil {
		return nil, nil, err
	}

	if !entry.IsPublic {
		user, err := s.resolver.Resolve(ctx, req.Token)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				// Private entries are indistinguishable from absent ones for
				// anyone but their owner.
				return nil, nil, ErrEntryNotFound
			}
			return nil, nil, err
		}
		if user.ID != entry.OwnerID {
			return nil, nil, ErrEntryNotFound
		}
	}

	if entry.IsFolder() {
		return nil, nil, ErrNoContent
	}

	rc, err := s.blobs.Open(ctx, entry.Locator)
	if err != nil {
		return nil, nil, err
	}
	return rc, entry, nil
}
