package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/caiomarques/debtdesk/internal/adapters/storage/sqlite"
	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.ApplyMigrations())
	return store, dsn
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.ApplyMigrations())
}

func TestLoadDocument_SeedsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := sqlite.NewDocumentRepository(store, "tester", func() time.Time { return now })

	doc, err := repo.LoadDocument(ctx)

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotNil(t, doc.Clients)
	assert.Empty(t, doc.Clients)
	assert.Equal(t, "tester", doc.Settings.Owner)
	assert.Equal(t, domain.DocumentVersion, doc.Settings.Version)
	assert.True(t, doc.Settings.LastUpdated.Equal(now))
}

func TestSaveDocument_StampsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := sqlite.NewDocumentRepository(store, "tester", func() time.Time { return now })

	doc := domain.NewDocument("tester", now.Add(-time.Hour))
	doc.Clients = append(doc.Clients, domain.Client{
		ClientID: "c1",
		Name:     "Ana Souza",
		Debts: []domain.Debt{{
			DebtID:         "d1",
			ClientID:       "c1",
			Amount:         decimal.NewFromInt(1000),
			Status:         domain.DebtPending,
			AdjustedAmount: decimal.NewFromInt(1000),
		}},
		Payments: []domain.Payment{},
	})

	require.NoError(t, repo.SaveDocument(ctx, doc))

	got, err := repo.LoadDocument(ctx)
	require.NoError(t, err)
	require.Len(t, got.Clients, 1)
	assert.Equal(t, "Ana Souza", got.Clients[0].Name)
	assert.True(t, got.Clients[0].Debts[0].Amount.Equal(decimal.NewFromInt(1000)))

	// Saving stamps the reconciliation timestamp with the current clock.
	assert.True(t, got.Settings.LastUpdated.Equal(now))
}

func TestReplaceDocument_PreservesTimestamp(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := sqlite.NewDocumentRepository(store, "tester", func() time.Time { return now })

	fileStamp := now.Add(2 * time.Hour)
	doc := domain.NewDocument("other-device", fileStamp)

	require.NoError(t, repo.ReplaceDocument(ctx, doc))

	got, err := repo.LoadDocument(ctx)
	require.NoError(t, err)
	assert.True(t, got.Settings.LastUpdated.Equal(fileStamp))
	assert.Equal(t, "other-device", got.Settings.Owner)
}

func TestLoadDocument_ReseedsOnCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, dsn := newTestStore(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := sqlite.NewDocumentRepository(store, "tester", func() time.Time { return now })

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (key, payload, updated_at) VALUES ('primary', '{broken', ?)`, now)
	require.NoError(t, err)

	doc, err := repo.LoadDocument(ctx)

	require.NoError(t, err)
	assert.Empty(t, doc.Clients)
	assert.Equal(t, "tester", doc.Settings.Owner)
}

func TestFolderHandleRepository(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := sqlite.NewFolderHandleRepository(store)

	_, err := repo.FindFolderHandle(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	granted := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	handle := domain.FolderHandle{Path: "/data/sync", GrantedAt: granted}
	require.NoError(t, repo.SaveFolderHandle(ctx, handle))

	got, err := repo.FindFolderHandle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/data/sync", got.Path)
	assert.True(t, got.GrantedAt.Equal(granted))

	// Saving again replaces the single handle row.
	require.NoError(t, repo.SaveFolderHandle(ctx, domain.FolderHandle{Path: "/data/other", GrantedAt: granted}))
	got, err = repo.FindFolderHandle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/data/other", got.Path)

	require.NoError(t, repo.PurgeFolderHandle(ctx))
	_, err = repo.FindFolderHandle(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Purging an absent handle is a no-op.
	require.NoError(t, repo.PurgeFolderHandle(ctx))
}
