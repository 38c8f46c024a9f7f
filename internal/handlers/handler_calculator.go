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

// calculatorHandler handles the stateless interest preview.
type calculatorHandler struct {
	interestService portssvc.InterestSvcFacade
}

// registerCalculatorRoutes registers the interest calculator route.
func registerCalculatorRoutes(rg *gin.RouterGroup, interestService portssvc.InterestSvcFacade) {
	h := &calculatorHandler{interestService: interestService}
	rg.POST("/calculator", h.preview)
}

// preview godoc
// @Summary Preview interest accrual
// @Description Computes months overdue, status and corrected amount for arbitrary inputs without persisting anything
// @Tags calculator
// @Accept json
// @Produce json
// @Param input body dto.CalculatorRequest true "Calculation inputs"
// @Success 200 {object} dto.CalculatorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /calculator [post]
func (h *calculatorHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for calculator preview", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.interestService.Preview(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute interest preview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute preview"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
