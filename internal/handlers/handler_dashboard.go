package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves the aggregated portfolio view.
type dashboardHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerDashboardRoutes registers the dashboard route.
func registerDashboardRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &dashboardHandler{reportingService: reportingService}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Get portfolio dashboard figures
// @Description Counts by status plus principal and corrected totals, evaluated against the current time
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.reportingService.Dashboard(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
