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

// messageHandler handles collection message rendering and dispatch.
type messageHandler struct {
	messageService portssvc.MessageSvcFacade
}

// registerMessageRoutes registers collection message routes.
func registerMessageRoutes(rg *gin.RouterGroup, messageService portssvc.MessageSvcFacade) {
	h := &messageHandler{messageService: messageService}

	messages := rg.Group("/messages")
	{
		messages.POST("/collection/preview", h.previewMessage)
		messages.POST("/collection", h.sendMessage)
	}
}

// previewMessage godoc
// @Summary Render a collection message without sending it
// @Tags messages
// @Accept json
// @Produce json
// @Param input body dto.CollectionMessageRequest true "Target debt"
// @Success 200 {object} dto.CollectionMessageResponse
// @Failure 400 {object} map[string]string "Debt already paid"
// @Failure 404 {object} map[string]string "Client or debt not found"
// @Security BearerAuth
// @Router /messages/collection/preview [post]
func (h *messageHandler) previewMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CollectionMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for message preview", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.messageService.BuildCollectionMessage(c.Request.Context(), req.ClientID, req.DebtID)
	if err != nil {
		h.respondMessageError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// sendMessage godoc
// @Summary Render and dispatch a collection message
// @Description On delivery failure the rendered message is still returned with sent=false
// @Tags messages
// @Accept json
// @Produce json
// @Param input body dto.CollectionMessageRequest true "Target debt"
// @Success 200 {object} dto.CollectionMessageResponse
// @Failure 400 {object} map[string]string "Debt already paid"
// @Failure 404 {object} map[string]string "Client or debt not found"
// @Security BearerAuth
// @Router /messages/collection [post]
func (h *messageHandler) sendMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CollectionMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for message send", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.messageService.SendCollectionMessage(c.Request.Context(), req.ClientID, req.DebtID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			h.respondMessageError(c, logger, err)
			return
		}
		// Delivery failed after rendering; hand the message back so the
		// caller can copy it manually.
		logger.Warn("Collection message not delivered", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *messageHandler) respondMessageError(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		logger.Error("Failed to build collection message", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build collection message"})
	}
}
