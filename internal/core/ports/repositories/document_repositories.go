package repositories

import (
	"context"

	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// DocumentReader defines read operations for the serialized document.
type DocumentReader interface {
	// LoadDocument returns the stored document. A missing or unparsable
	// stored value is treated as "no data": a fresh seed document is
	// returned instead of an error.
	LoadDocument(ctx context.Context) (*domain.Document, error)
}

// DocumentWriter defines write operations for the serialized document.
type DocumentWriter interface {
	// SaveDocument stamps settings.lastUpdated with the current time and
	// persists the whole document. Write failure surfaces as
	// apperrors.ErrStorageWrite.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// ReplaceDocument persists the document verbatim, preserving its
	// settings.lastUpdated. Used when reconciliation adopts the sync file's
	// copy; stamping here would break last-writer-wins equality.
	ReplaceDocument(ctx context.Context, doc *domain.Document) error
}

// DocumentRepositoryFacade combines document read and write operations.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// FolderHandleRepository persists the sync folder grant. The handle lives
// outside the document because it is not part of the synced dataset.
type FolderHandleRepository interface {
	// FindFolderHandle returns the stored handle, or apperrors.ErrNotFound.
	FindFolderHandle(ctx context.Context) (*domain.FolderHandle, error)

	// SaveFolderHandle stores or replaces the handle.
	SaveFolderHandle(ctx context.Context, handle domain.FolderHandle) error

	// PurgeFolderHandle removes the handle. Purging an absent handle is a no-op.
	PurgeFolderHandle(ctx context.Context) error
}
