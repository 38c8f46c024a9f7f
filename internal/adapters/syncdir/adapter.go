// Package syncdir bridges the document to a JSON mirror file inside a
// user-designated sync folder. The folder grant can be revoked out-of-band
// (chmod, unmount, deletion), so permission is probed before every use
// instead of cached.
package syncdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// probeFileName is the throwaway file used for write-and-delete permission checks.
const probeFileName = ".debtdesk-probe"

// Adapter implements the mirror repository over the local filesystem.
type Adapter struct {
	enabled  bool
	probeDir string
}

// NewAdapter creates an Adapter. enabled comes from configuration; probeDir
// is the directory used by Available for its sandbox check (the OS temp dir
// when empty).
func NewAdapter(enabled bool, probeDir string) *Adapter {
	if probeDir == "" {
		probeDir = os.TempDir()
	}
	return &Adapter{enabled: enabled, probeDir: probeDir}
}

// Available reports whether folder sync can work at all: the feature must
// be enabled and the process must be able to create files, which a
// sandboxed or read-only environment cannot.
func (a *Adapter) Available() bool {
	if !a.enabled {
		return false
	}
	f, err := os.CreateTemp(a.probeDir, "debtdesk-availability-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// Probe verifies the handle still grants write access by writing and
// deleting a throwaway file inside the folder.
func (a *Adapter) Probe(ctx context.Context, handle domain.FolderHandle) error {
	info, err := os.Stat(handle.Path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not an accessible directory", apperrors.ErrPermissionDenied, handle.Path)
	}

	probe := filepath.Join(handle.Path, probeFileName)
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
	}
	return nil
}

// ReadDocument returns the parsed mirror document, or (nil, nil) when the
// file does not exist. Any other failure, including a corrupt file,
// propagates: silently clobbering a file that fails to parse could destroy
// the only good copy.
func (a *Adapter) ReadDocument(ctx context.Context, handle domain.FolderHandle, fileName string) (*domain.Document, error) {
	b, err := os.ReadFile(filepath.Join(handle.Path, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sync file: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse sync file: %w", err)
	}
	return &doc, nil
}

// WriteDocument fully overwrites the mirror file, pretty-printed. The
// payload goes to a temp file in the same directory first and is renamed
// into place, so a crash mid-write leaves the previous content intact.
func (a *Adapter) WriteDocument(ctx context.Context, handle domain.FolderHandle, fileName string, doc *domain.Document) error {
	return a.writeFile(handle, fileName, doc)
}

// WriteBackup writes a dated snapshot (<basename>_backup_<YYYYMMDD>.json)
// without touching the primary mirror file. Returns the snapshot name.
func (a *Adapter) WriteBackup(ctx context.Context, handle domain.FolderHandle, fileName string, doc *domain.Document, when time.Time) (string, error) {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name := fmt.Sprintf("%s_backup_%s.json", base, when.Format("20060102"))
	if err := a.writeFile(handle, name, doc); err != nil {
		return "", err
	}
	return name, nil
}

func (a *Adapter) writeFile(handle domain.FolderHandle, fileName string, doc *domain.Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sync file: %w", err)
	}

	tmp, err := os.CreateTemp(handle.Path, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPermissionDenied, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write sync file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(handle.Path, fileName)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace sync file: %w", err)
	}
	return nil
}
