package repositories

import (
	"context"
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// MirrorRepository bridges the document to its JSON mirror file inside the
// user-designated sync folder.
type MirrorRepository interface {
	// Available reports whether folder sync can work at all in this
	// environment. Checked before any other operation; when false the
	// feature is hidden rather than attempted and failed.
	Available() bool

	// Probe verifies the handle still grants write access, by a
	// write-and-delete probe against a throwaway file. Returns
	// apperrors.ErrPermissionDenied when access was revoked out-of-band.
	Probe(ctx context.Context, handle domain.FolderHandle) error

	// ReadDocument returns the parsed mirror document, or (nil, nil) when
	// the file does not exist. Any other read failure propagates.
	ReadDocument(ctx context.Context, handle domain.FolderHandle, fileName string) (*domain.Document, error)

	// WriteDocument fully overwrites the mirror file with the document,
	// pretty-printed for human inspection. The write goes to a temp file
	// first and is renamed into place so a crash mid-write cannot leave a
	// truncated mirror.
	WriteDocument(ctx context.Context, handle domain.FolderHandle, fileName string, doc *domain.Document) error

	// WriteBackup writes a dated snapshot (<basename>_backup_<YYYYMMDD>.json)
	// next to the mirror file without touching it. Returns the snapshot name.
	WriteBackup(ctx context.Context, handle domain.FolderHandle, fileName string, doc *domain.Document, when time.Time) (string, error)
}

// MessageDispatcher delivers a rendered collection message to a phone
// number. The transport itself (WhatsApp HTTP API) is an external
// collaborator; delivery is best-effort and never part of a mutation's
// success contract.
type MessageDispatcher interface {
	Send(ctx context.Context, phone string, text string) error
}
