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

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	recordService portssvc.RecordSvcFacade
}

func newClientHandler(rs portssvc.RecordSvcFacade) *clientHandler {
	return &clientHandler{recordService: rs}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := newClientHandler(recordService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:clientID", h.getClientByID)
		clients.PUT("/:clientID", h.updateClient)
		clients.DELETE("/:clientID", h.deleteClient)
	}
}

// createClient godoc
// @Summary Register a new client
// @Description Adds a new client with empty debt and payment lists
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	client, err := h.recordService.CreateClient(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create client in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		}
		return
	}

	logger.Info("Client created successfully", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Lists every client, or searches by name, email, tax id or phone when ?q= is given
// @Tags clients
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} dto.ListClientsResponse
// @Failure 500 {object} map[string]string "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	clients, err := h.recordService.SearchClients(c.Request.Context(), params.Term)
	if err != nil {
		logger.Error("Failed to list clients from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// getClientByID godoc
// @Summary Get a client by id
// @Description Retrieves a single client with embedded debts and payments
// @Tags clients
// @Produce json
// @Param clientID path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [get]
func (h *clientHandler) getClientByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	client, err := h.recordService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to get client from service", slog.String("error", err.Error()), slog.String("client_id", clientID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Description Updates only the provided fields of a client
// @Tags clients
// @Accept json
// @Produce json
// @Param clientID path string true "Client ID"
// @Param client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	client, err := h.recordService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update client in service", slog.String("error", err.Error()), slog.String("client_id", clientID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Remove a client
// @Description Removes a client along with every debt and payment nested under it
// @Tags clients
// @Param clientID path string true "Client ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	if err := h.recordService.RemoveClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to remove client in service", slog.String("error", err.Error()), slog.String("client_id", clientID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove client"})
		}
		return
	}

	logger.Info("Client removed successfully", slog.String("client_id", clientID))
	c.Status(http.StatusNoContent)
}
