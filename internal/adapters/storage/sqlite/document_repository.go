package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// documentKey identifies the single document row.
const documentKey = "primary"

const upsertDocumentSQL = `
INSERT INTO documents (key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

// DocumentRepository persists the whole serialized document in a single row.
type DocumentRepository struct {
	db    *sql.DB
	owner string
	now   func() time.Time
}

// NewDocumentRepository creates a DocumentRepository over the store.
// owner is stamped into seed documents; now is the injectable clock.
func NewDocumentRepository(store *Store, owner string, now func() time.Time) *DocumentRepository {
	if now == nil {
		now = time.Now
	}
	return &DocumentRepository{db: store.db, owner: owner, now: now}
}

// LoadDocument returns the stored document. A missing row or an unparsable
// payload both yield a fresh seed document: stored garbage is treated as
// "no data", not an error.
func (r *DocumentRepository) LoadDocument(ctx context.Context) (*domain.Document, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE key = ?`, documentKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewDocument(r.owner, r.now()), nil
	}
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		slog.Warn("Stored document failed to parse, reseeding empty document", slog.String("error", err.Error()))
		return domain.NewDocument(r.owner, r.now()), nil
	}
	if doc.Clients == nil {
		doc.Clients = []domain.Client{}
	}
	return &doc, nil
}

// SaveDocument stamps settings.lastUpdated and persists the document.
func (r *DocumentRepository) SaveDocument(ctx context.Context, doc *domain.Document) error {
	doc.Settings.LastUpdated = r.now()
	if doc.Settings.Version == "" {
		doc.Settings.Version = domain.DocumentVersion
	}
	return r.persist(ctx, doc)
}

// ReplaceDocument persists the document verbatim, preserving its
// reconciliation timestamp.
func (r *DocumentRepository) ReplaceDocument(ctx context.Context, doc *domain.Document) error {
	return r.persist(ctx, doc)
}

func (r *DocumentRepository) persist(ctx context.Context, doc *domain.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	if _, err := r.db.ExecContext(ctx, upsertDocumentSQL, documentKey, string(payload), r.now()); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}
