package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrCancelled indicates the user dismissed the folder configuration prompt.
// Distinguished from ErrPermissionDenied so the UI can treat it as neutral.
var ErrCancelled = errors.New("folder configuration cancelled")

// ErrPermissionDenied indicates the sync folder is no longer writable by this process.
var ErrPermissionDenied = errors.New("sync folder permission denied")

// ErrFolderNotConfigured indicates a sync operation was requested before a folder was chosen.
var ErrFolderNotConfigured = errors.New("sync folder not configured")

// ErrStorageWrite indicates the local data store rejected a write.
var ErrStorageWrite = errors.New("failed to persist data to local store")

// ErrUnsupported indicates folder sync is unavailable in this environment.
var ErrUnsupported = errors.New("folder sync not supported in this environment")
