package dto

import (
	"time"

	"github.com/caiomarques/debtdesk/internal/core/domain"
)

// ConfigureFolderRequest carries the user's chosen sync folder. An empty
// path means the picker was dismissed, which the service reports as a
// distinguishable cancelled condition rather than an error.
type ConfigureFolderRequest struct {
	Path string `json:"path"`
}

// SyncStatusResponse mirrors domain.SyncStatus for the UI.
type SyncStatusResponse struct {
	Available        bool       `json:"available"`
	Connected        bool       `json:"connected"`
	FolderConfigured bool       `json:"folderConfigured"`
	MustConfigure    bool       `json:"mustConfigure"`
	LastSync         *time.Time `json:"lastSync,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// BackupResponse returns the name of the snapshot file written.
type BackupResponse struct {
	FileName string `json:"fileName"`
}

// ToSyncStatusResponse converts a domain.SyncStatus to its response DTO.
func ToSyncStatusResponse(s domain.SyncStatus) SyncStatusResponse {
	return SyncStatusResponse{
		Available:        s.Available,
		Connected:        s.Connected,
		FolderConfigured: s.FolderConfigured,
		MustConfigure:    s.MustConfigure,
		LastSync:         s.LastSync,
		Error:            s.Error,
	}
}
