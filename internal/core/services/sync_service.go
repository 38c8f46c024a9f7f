package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
	portsrepo "github.com/caiomarques/debtdesk/internal/core/ports/repositories"
	"github.com/caiomarques/debtdesk/internal/metrics"
	"github.com/caiomarques/debtdesk/internal/middleware"
)

// documentReloader lets the coordinator refresh the record store's
// in-memory document after the sync file wins a reconciliation.
type documentReloader interface {
	Reload(ctx context.Context) error
}

// SyncService coordinates reconciliation between the local store and the
// mirror file in the sync folder. It owns the publicly observed SyncStatus
// and is constructed once per process with injectable clock and interval,
// so tests run without real timers or a real folder grant.
//
// Reconciliation is last-writer-wins on settings.lastUpdated at
// whole-document granularity: no field-level merge, no conflict detection
// beyond the timestamp compare. Two processes mutating concurrently can
// each persist locally and the last reconcile to run wins; an accepted
// limitation, not a consistency guarantee.
type SyncService struct {
	mu       sync.Mutex
	docs     portsrepo.DocumentRepositoryFacade
	handles  portsrepo.FolderHandleRepository
	mirror   portsrepo.MirrorRepository
	reloader documentReloader

	fileName string
	interval time.Duration
	now      func() time.Time

	status  domain.SyncStatus
	trigger chan struct{}
}

// NewSyncService creates the coordinator. Bootstrap must run before Start.
func NewSyncService(
	docs portsrepo.DocumentRepositoryFacade,
	handles portsrepo.FolderHandleRepository,
	mirror portsrepo.MirrorRepository,
	fileName string,
	interval time.Duration,
	now func() time.Time,
) *SyncService {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncService{
		docs:     docs,
		handles:  handles,
		mirror:   mirror,
		fileName: fileName,
		interval: interval,
		now:      now,
		trigger:  make(chan struct{}, 1),
	}
}

// SetReloader wires the record store refresh hook. Optional; without it the
// in-memory document goes stale when the file side wins.
func (s *SyncService) SetReloader(r documentReloader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloader = r
}

// Status returns a snapshot of the current sync status.
func (s *SyncService) Status(ctx context.Context) domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// NotifyMutation requests an asynchronous reconcile after a store mutation.
// Non-blocking; a pending request is enough.
func (s *SyncService) NotifyMutation() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Bootstrap probes the environment and any stored handle, and decides
// whether the UI must force a folder configuration: feature available, no
// handle yet, and data already exists. With zero clients there is nothing
// to lose, so no nudge.
func (s *SyncService) Bootstrap(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = domain.SyncStatus{Available: s.mirror.Available()}
	if !s.status.Available {
		logger.Info("Folder sync unavailable in this environment; feature disabled")
		return nil
	}

	handle, err := s.handles.FindFolderHandle(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		doc, err := s.docs.LoadDocument(ctx)
		if err != nil {
			return err
		}
		if len(doc.Clients) > 0 {
			s.status.MustConfigure = true
			logger.Info("Existing data without a sync folder; configuration required")
		}
		return nil
	}
	if err != nil {
		return err
	}

	s.status.FolderConfigured = true
	if err := s.mirror.Probe(ctx, *handle); err != nil {
		s.revokeLocked(ctx, logger)
		return nil
	}
	s.status.Connected = true

	// Absorb whatever the folder holds from previous runs.
	s.reconcileLocked(ctx)
	return nil
}

// Start runs the timer loop: reconcile on mutation signals, on the fixed
// interval, and a final best-effort pass when ctx is cancelled (the
// shutdown analog of a page unload, completion not guaranteed).
func (s *SyncService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				s.mu.Lock()
				s.reconcileLocked(flushCtx)
				s.mu.Unlock()
				cancel()
				return
			case <-ticker.C:
				s.mu.Lock()
				if s.status.FolderConfigured {
					s.reconcileLocked(ctx)
				}
				s.mu.Unlock()
			case <-s.trigger:
				s.mu.Lock()
				s.reconcileLocked(ctx)
				s.mu.Unlock()
			}
		}
	}()
}

// ReconcileNow forces a reconciliation pass and returns the resulting status.
func (s *SyncService) ReconcileNow(ctx context.Context) (domain.SyncStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLocked(ctx), nil
}

// reconcileLocked runs one last-writer-wins pass. Failures are recorded on
// the status, never returned: sync is best-effort and always recoverable by
// the next tick or mutation. Callers hold s.mu.
func (s *SyncService) reconcileLocked(ctx context.Context) domain.SyncStatus {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.status.Available {
		return s.status
	}
	metrics.ReconcileAttempts.Inc()

	handle, err := s.handles.FindFolderHandle(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.status.Connected = false
		s.status.FolderConfigured = false
		return s.status
	}
	if err != nil {
		return s.failLocked(logger, err)
	}
	s.status.FolderConfigured = true

	if err := s.mirror.Probe(ctx, *handle); err != nil {
		s.revokeLocked(ctx, logger)
		return s.status
	}

	local, err := s.docs.LoadDocument(ctx)
	if err != nil {
		return s.failLocked(logger, err)
	}
	remote, err := s.mirror.ReadDocument(ctx, *handle, s.fileName)
	if err != nil {
		return s.failLocked(logger, err)
	}

	winner := "none"
	switch {
	case remote == nil:
		// No file yet: the local document is authoritative.
		winner = "local"
		err = s.mirror.WriteDocument(ctx, *handle, s.fileName, local)
	case remote.Settings.LastUpdated.After(local.Settings.LastUpdated):
		winner = "file"
		if err = s.docs.ReplaceDocument(ctx, remote); err == nil && s.reloader != nil {
			err = s.reloader.Reload(ctx)
		}
	case local.Settings.LastUpdated.After(remote.Settings.LastUpdated):
		winner = "local"
		err = s.mirror.WriteDocument(ctx, *handle, s.fileName, local)
	}
	if err != nil {
		return s.failLocked(logger, err)
	}

	now := s.now()
	s.status.Connected = true
	s.status.MustConfigure = false
	s.status.Error = ""
	s.status.LastSync = &now
	metrics.ReconcileOutcomes.WithLabelValues(winner).Inc()
	metrics.LastSyncTimestamp.Set(float64(now.Unix()))

	if winner != "none" {
		logger.Info("Reconciliation completed", slog.String("winner", winner))
	}
	return s.status
}

// failLocked records a recoverable sync failure on the status.
func (s *SyncService) failLocked(logger *slog.Logger, err error) domain.SyncStatus {
	logger.Warn("Reconciliation failed", slog.String("error", err.Error()))
	s.status.Connected = false
	s.status.Error = err.Error()
	metrics.ReconcileFailures.Inc()
	return s.status
}

// revokeLocked handles out-of-band permission loss: purge the handle and
// revert to unconfigured.
func (s *SyncService) revokeLocked(ctx context.Context, logger *slog.Logger) {
	logger.Warn("Sync folder access revoked; purging handle")
	if err := s.handles.PurgeFolderHandle(ctx); err != nil {
		logger.Error("Failed to purge folder handle", slog.String("error", err.Error()))
	}
	metrics.ReconcileFailures.Inc()
	s.status = domain.SyncStatus{
		Available: s.status.Available,
		Error:     "sync folder access was revoked; configure a folder again",
	}
}

// ConfigureFolder validates and stores the user's chosen folder, then runs
// an immediate reconcile. An empty path is the dismissed-picker condition.
func (s *SyncService) ConfigureFolder(ctx context.Context, path string) (domain.SyncStatus, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	path = strings.TrimSpace(path)
	if path == "" {
		return s.status, apperrors.ErrCancelled
	}
	if !s.status.Available {
		return s.status, apperrors.ErrUnsupported
	}

	handle := domain.FolderHandle{Path: path, GrantedAt: s.now()}
	if err := s.mirror.Probe(ctx, handle); err != nil {
		logger.Warn("Chosen sync folder rejected", slog.String("path", path), slog.String("error", err.Error()))
		return s.status, err
	}
	if err := s.handles.SaveFolderHandle(ctx, handle); err != nil {
		return s.status, err
	}

	s.status.FolderConfigured = true
	s.status.MustConfigure = false
	logger.Info("Sync folder configured", slog.String("path", path))
	return s.reconcileLocked(ctx), nil
}

// DisconnectFolder purges the stored handle and resets the status.
func (s *SyncService) DisconnectFolder(ctx context.Context) (domain.SyncStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.handles.PurgeFolderHandle(ctx); err != nil {
		return s.status, err
	}
	s.status = domain.SyncStatus{Available: s.status.Available}
	return s.status, nil
}

// Backup writes a dated snapshot next to the mirror file without touching
// it. Requires a configured folder.
func (s *SyncService) Backup(ctx context.Context) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	handle, err := s.handles.FindFolderHandle(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", apperrors.ErrFolderNotConfigured
	}
	if err != nil {
		return "", err
	}
	if err := s.mirror.Probe(ctx, *handle); err != nil {
		s.revokeLocked(ctx, logger)
		return "", err
	}

	doc, err := s.docs.LoadDocument(ctx)
	if err != nil {
		return "", err
	}

	name, err := s.mirror.WriteBackup(ctx, *handle, s.fileName, doc, s.now())
	if err != nil {
		return "", err
	}
	logger.Info("Backup written", slog.String("file", name))
	return name, nil
}
