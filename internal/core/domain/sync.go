package domain

import "time"

// FolderHandle is the persisted grant of write access to a sync folder.
// It lives in its own store, separate from the document, and its permission
// state can change out-of-band (chmod, unmount, deletion), so it is probed
// before every use rather than cached as known good.
type FolderHandle struct {
	Path      string    `json:"path"`
	GrantedAt time.Time `json:"grantedAt"`
}

// SyncStatus is the ephemeral, process-wide state of the folder sync
// subsystem. It is recomputed on every reconciliation attempt and never
// persisted.
type SyncStatus struct {
	Available        bool       `json:"available"`        // Folder sync usable in this environment
	Connected        bool       `json:"connected"`        // Folder reachable and writable on last probe
	FolderConfigured bool       `json:"folderConfigured"` // A handle exists in the handle store
	MustConfigure    bool       `json:"mustConfigure"`    // Data exists but no folder chosen yet
	LastSync         *time.Time `json:"lastSync,omitempty"`
	Error            string     `json:"error,omitempty"`
}
