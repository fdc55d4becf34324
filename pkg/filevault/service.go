package filevault

import (
	"context"
	"io"
)

// Service is the main interface for file-storage metadata operations.
type Service interface {
	// Upload runs the upload transaction: authenticate, validate shape,
	// validate hierarchy, write the blob (file/image only), insert metadata.
	// The returned entry carries its store-assigned identifier.
	Upload(ctx context.Context, req UploadRequest) (*Entry, error)

	// GetEntry returns one of the authenticated user's entries.
	GetEntry(ctx context.Context, req GetEntryRequest) (*Entry, error)

	// ListEntries returns a page of the authenticated user's entries under
	// the requested parent.
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]*Entry, error)

	// SetVisibility toggles an entry's public flag and returns the updated
	// entry.
	SetVisibility(ctx context.Context, req SetVisibilityRequest) (*Entry, error)

	// Download streams an entry's content. Public entries need no token;
	// private entries require the owner's.
	Download(ctx context.Context, req DownloadRequest) (io.ReadCloser, *Entry, error)
}
