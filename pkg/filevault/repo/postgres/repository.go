package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filevault/filevault/pkg/filevault"
)

// DBTX is an interface that allows us to use either a database connection or
// a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements filevault.EntryRepository and filevault.UserRepository
// using PostgreSQL.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository over a connection pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return &filevault.StoreError{Store: "postgres", Op: op,
				Err: fmt.Errorf("referenced record not found: %s", pgErr.ConstraintName)}
		case "23502": // not_null_violation
			return &filevault.StoreError{Store: "postgres", Op: op,
				Err: fmt.Errorf("required column %s is missing", pgErr.ColumnName)}
		case "42P01": // undefined_table
			return &filevault.StoreError{Store: "postgres", Op: op,
				Err: errors.New("table does not exist - database migration required")}
		}
	}
	return &filevault.StoreError{Store: "postgres", Op: op, Err: err}
}

// Entry operations

func (r *Repository) CreateEntry(ctx context.Context, entry *filevault.Entry) error {
	query := `
		INSERT INTO entries (owner_id, name, type, is_public, parent_id, locator, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var parentID *uuid.UUID
	if entry.ParentID != filevault.RootParentID {
		parentID = &entry.ParentID
	}
	var locator *string
	if entry.Locator != "" {
		locator = &entry.Locator
	}

	err := r.db.QueryRow(ctx, query,
		entry.OwnerID, entry.Name, entry.Type, entry.IsPublic,
		parentID, locator, entry.CreatedAt, entry.UpdatedAt).Scan(&entry.ID)
	if err != nil {
		return r.storeError("create entry", err)
	}

	return nil
}

func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (*filevault.Entry, error) {
	query := `
		SELECT id, owner_id, name, type, is_public, parent_id, locator, created_at, updated_at
		FROM entries WHERE id = $1`

	entry, err := r.scanEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filevault.ErrEntryNotFound
		}
		return nil, r.storeError("get entry", err)
	}

	return entry, nil
}

func (r *Repository) ListEntries(ctx context.Context, ownerID, parentID uuid.UUID, limit, offset int) ([]*filevault.Entry, error) {
	query := `
		SELECT id, owner_id, name, type, is_public, parent_id, locator, created_at, updated_at
		FROM entries
		WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var parent *uuid.UUID
	if parentID != filevault.RootParentID {
		parent = &parentID
	}

	rows, err := r.db.Query(ctx, query, ownerID, parent, limit, offset)
	if err != nil {
		return nil, r.storeError("list entries", err)
	}
	defer rows.Close()

	var entries []*filevault.Entry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, r.storeError("list entries", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError("list entries", err)
	}

	return entries, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *filevault.Entry) error {
	query := `
		UPDATE entries SET is_public = $2, name = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, entry.ID, entry.IsPublic, entry.Name, entry.UpdatedAt)
	if err != nil {
		return r.storeError("update entry", err)
	}
	if tag.RowsAffected() == 0 {
		return filevault.ErrEntryNotFound
	}

	return nil
}

func (r *Repository) scanEntry(row pgx.Row) (*filevault.Entry, error) {
	var entry filevault.Entry
	var parentID *uuid.UUID
	var locator *string

	err := row.Scan(&entry.ID, &entry.OwnerID, &entry.Name, &entry.Type, &entry.IsPublic,
		&parentID, &locator, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		entry.ParentID = *parentID
	}
	if locator != nil {
		entry.Locator = *locator
	}
	return &entry, nil
}

// User operations

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*filevault.User, error) {
	query := `SELECT id, email, created_at FROM users WHERE id = $1`

	var user filevault.User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filevault.ErrUserNotFound
		}
		return nil, r.storeError("get user", err)
	}

	return &user, nil
}
