package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// handleKey identifies the single sync folder handle row.
const handleKey = "sync_folder"

const upsertHandleSQL = `
INSERT INTO folder_handles (key, path, granted_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET path = excluded.path, granted_at = excluded.granted_at`

// FolderHandleRepository persists the sync folder grant, separate from the
// document row.
type FolderHandleRepository struct {
	db *sql.DB
}

// NewFolderHandleRepository creates a FolderHandleRepository over the store.
func NewFolderHandleRepository(store *Store) *FolderHandleRepository {
	return &FolderHandleRepository{db: store.db}
}

// FindFolderHandle returns the stored handle, or apperrors.ErrNotFound.
func (r *FolderHandleRepository) FindFolderHandle(ctx context.Context) (*domain.FolderHandle, error) {
	var handle domain.FolderHandle
	err := r.db.QueryRowContext(ctx, `SELECT path, granted_at FROM folder_handles WHERE key = ?`, handleKey).
		Scan(&handle.Path, &handle.GrantedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &handle, nil
}

// SaveFolderHandle stores or replaces the handle.
func (r *FolderHandleRepository) SaveFolderHandle(ctx context.Context, handle domain.FolderHandle) error {
	_, err := r.db.ExecContext(ctx, upsertHandleSQL, handleKey, handle.Path, handle.GrantedAt)
	return err
}

// PurgeFolderHandle removes the handle; absent is a no-op.
func (r *FolderHandleRepository) PurgeFolderHandle(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folder_handles WHERE key = ?`, handleKey)
	return err
}
