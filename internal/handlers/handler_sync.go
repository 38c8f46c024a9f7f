package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/caiomarques/debtdesk/internal/apperrors"
	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/dto"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// syncHandler handles HTTP requests related to folder sync.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: ss}
}

// registerSyncRoutes registers routes related to folder sync.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.getStatus)
		sync.POST("/folder", h.configureFolder)
		sync.DELETE("/folder", h.disconnectFolder)
		sync.POST("/reconcile", h.reconcileNow)
		sync.POST("/backup", h.backup)
	}
}

// getStatus godoc
// @Summary Get the current sync status
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncStatusResponse
// @Security BearerAuth
// @Router /sync/status [get]
func (h *syncHandler) getStatus(c *gin.Context) {
	status := h.syncService.Status(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToSyncStatusResponse(status))
}

// configureFolder godoc
// @Summary Configure the sync folder
// @Description Validates write access to the chosen folder, stores the grant and reconciles immediately.
// @Description An empty path means the picker was dismissed and leaves the previous state untouched
// @Tags sync
// @Accept json
// @Produce json
// @Param folder body dto.ConfigureFolderRequest true "Chosen folder"
// @Success 200 {object} dto.SyncStatusResponse
// @Failure 403 {object} map[string]string "Folder not writable"
// @Failure 409 {object} map[string]string "Folder sync unavailable"
// @Security BearerAuth
// @Router /sync/folder [post]
func (h *syncHandler) configureFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConfigureFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfigureFolder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	status, err := h.syncService.ConfigureFolder(c.Request.Context(), req.Path)
	if err != nil {
		if errors.Is(err, apperrors.ErrCancelled) {
			// A dismissed picker is not a failure; return the unchanged status.
			c.JSON(http.StatusOK, dto.ToSyncStatusResponse(status))
		} else if errors.Is(err, apperrors.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrUnsupported) {
			c.JSON(http.StatusConflict, gin.H{"error": "Folder sync is not available in this environment"})
		} else {
			logger.Error("Failed to configure sync folder", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to configure sync folder"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncStatusResponse(status))
}

// disconnectFolder godoc
// @Summary Disconnect the sync folder
// @Description Purges the stored folder grant. Already-written mirror files are left behind
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncStatusResponse
// @Security BearerAuth
// @Router /sync/folder [delete]
func (h *syncHandler) disconnectFolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.syncService.DisconnectFolder(c.Request.Context())
	if err != nil {
		logger.Error("Failed to disconnect sync folder", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect sync folder"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncStatusResponse(status))
}

// reconcileNow godoc
// @Summary Force a reconciliation pass
// @Description Runs last-writer-wins reconciliation now. Failures are reported inside the status, not as errors
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncStatusResponse
// @Security BearerAuth
// @Router /sync/reconcile [post]
func (h *syncHandler) reconcileNow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.syncService.ReconcileNow(c.Request.Context())
	if err != nil {
		logger.Error("Failed to reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncStatusResponse(status))
}

// backup godoc
// @Summary Write a dated backup snapshot
// @Description Writes <basename>_backup_<YYYYMMDD>.json next to the mirror file
// @Tags sync
// @Produce json
// @Success 200 {object} dto.BackupResponse
// @Failure 403 {object} map[string]string "Folder access revoked"
// @Failure 409 {object} map[string]string "No sync folder configured"
// @Security BearerAuth
// @Router /sync/backup [post]
func (h *syncHandler) backup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	name, err := h.syncService.Backup(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrFolderNotConfigured) {
			c.JSON(http.StatusConflict, gin.H{"error": "No sync folder configured"})
		} else if errors.Is(err, apperrors.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to write backup", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write backup"})
		}
		return
	}

	logger.Info("Backup written", slog.String("file", name))
	c.JSON(http.StatusOK, dto.BackupResponse{FileName: name})
}
