package services

import (
	"context"

	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// SyncSvcFacade exposes the sync coordinator to the HTTP layer and CLI.
type SyncSvcFacade interface {
	// Status returns the current sync status snapshot.
	Status(ctx context.Context) domain.SyncStatus

	// ConfigureFolder validates and stores the user's chosen sync folder,
	// then runs an immediate reconcile. An empty path returns
	// apperrors.ErrCancelled; an unusable folder returns
	// apperrors.ErrPermissionDenied.
	ConfigureFolder(ctx context.Context, path string) (domain.SyncStatus, error)

	// DisconnectFolder purges the stored handle and resets the status.
	DisconnectFolder(ctx context.Context) (domain.SyncStatus, error)

	// ReconcileNow forces a reconciliation pass and returns the resulting
	// status. Failures are recorded in the status rather than returned,
	// except for ErrFolderNotConfigured.
	ReconcileNow(ctx context.Context) (domain.SyncStatus, error)

	// Backup writes a dated snapshot next to the mirror file and returns
	// its name. Requires a configured folder.
	Backup(ctx context.Context) (string, error)
}
