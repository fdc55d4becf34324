package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault/pkg/filevault"
)

// Repository implements filevault.EntryRepository and filevault.UserRepository
// using in-memory storage.
type Repository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*filevault.Entry
	users   map[uuid.UUID]*filevault.User
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{
		entries: make(map[uuid.UUID]*filevault.Entry),
		users:   make(map[uuid.UUID]*filevault.User),
	}
}

// Entry operations

func (r *Repository) CreateEntry(ctx context.Context, entry *filevault.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The store assigns identifiers.
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	// Store a copy to avoid external modifications
	entryCopy := *entry
	r.entries[entry.ID] = &entryCopy

	return nil
}

func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (*filevault.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, filevault.ErrEntryNotFound
	}

	entryCopy := *entry
	return &entryCopy, nil
}

func (r *Repository) ListEntries(ctx context.Context, ownerID, parentID uuid.UUID, limit, offset int) ([]*filevault.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*filevault.Entry
	for _, entry := range r.entries {
		if entry.OwnerID == ownerID && entry.ParentID == parentID {
			entryCopy := *entry
			result = append(result, &entryCopy)
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if offset >= len(result) {
		return []*filevault.Entry{}, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *filevault.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.ID]; !exists {
		return filevault.ErrEntryNotFound
	}

	entryCopy := *entry
	r.entries[entry.ID] = &entryCopy

	return nil
}

// User operations

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*filevault.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, filevault.ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

// SaveUser inserts or replaces an identity record. The identity subsystem
// that owns users lives outside this service; SaveUser exists for tests and
// for embedding the repository behind such a subsystem.
func (r *Repository) SaveUser(ctx context.Context, user *filevault.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	userCopy := *user
	r.users[user.ID] = &userCopy

	return nil
}
