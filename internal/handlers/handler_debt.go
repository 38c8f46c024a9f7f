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

// debtHandler handles HTTP requests related to debts.
type debtHandler struct {
	recordService portssvc.RecordSvcFacade
}

func newDebtHandler(rs portssvc.RecordSvcFacade) *debtHandler {
	return &debtHandler{recordService: rs}
}

// registerDebtRoutes registers routes related to debts.
func registerDebtRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := newDebtHandler(recordService)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.PUT("/:debtID", h.updateDebt)
		debts.DELETE("/:debtID", h.deleteDebt)
		debts.POST("/:debtID/paid", h.markDebtPaid)
	}
}

// createDebt godoc
// @Summary Register a new debt
// @Description Adds a debt to a client. Rate and grace period fall back to 3% and 2 months
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, err := h.recordService.CreateDebt(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create debt in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create debt"})
		}
		return
	}

	logger.Info("Debt created successfully", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// updateDebt godoc
// @Summary Update a debt
// @Description Updates only the provided fields; status and adjusted amount are recomputed unless paid
// @Tags debts
// @Accept json
// @Produce json
// @Param debtID path string true "Debt ID"
// @Param debt body dto.UpdateDebtRequest true "Fields to update"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtID} [put]
func (h *debtHandler) updateDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	debtID := c.Param("debtID")

	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDebt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, err := h.recordService.UpdateDebt(c.Request.Context(), debtID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update debt in service", slog.String("error", err.Error()), slog.String("debt_id", debtID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update debt"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// deleteDebt godoc
// @Summary Remove a debt
// @Tags debts
// @Param debtID path string true "Debt ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtID} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	debtID := c.Param("debtID")

	if err := h.recordService.RemoveDebt(c.Request.Context(), debtID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		} else {
			logger.Error("Failed to remove debt in service", slog.String("error", err.Error()), slog.String("debt_id", debtID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove debt"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// markDebtPaid godoc
// @Summary Mark a debt as paid
// @Description Terminal transition: freezes the adjusted amount and stops interest accrual. Idempotent
// @Tags debts
// @Produce json
// @Param debtID path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtID}/paid [post]
func (h *debtHandler) markDebtPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	debtID := c.Param("debtID")

	debt, err := h.recordService.MarkDebtPaid(c.Request.Context(), debtID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		} else {
			logger.Error("Failed to mark debt paid in service", slog.String("error", err.Error()), slog.String("debt_id", debtID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark debt paid"})
		}
		return
	}

	logger.Info("Debt marked paid", slog.String("debt_id", debtID))
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}
