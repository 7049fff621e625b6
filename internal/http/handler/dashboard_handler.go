package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetStats godoc
// @Summary Get dashboard statistics
// @Description Aggregates over every lead and quote on each request.
// @Description
// @Description - `leadsByStatus` covers new, contacted, qualified, won and lost
// @Description - `conversionRate` is won / total * 100, 0 when there are no leads
// @Description - `recentLeads` are the five newest leads
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStatsDTO
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "failed to get dashboard stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
