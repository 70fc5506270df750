package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LeadPulse/leadpulse-go/internal/application/services"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// AnalyticsHandlers contains the admin analytics endpoints.
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetSummary handles GET /api/v1/analytics/summary?days=N
func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days value"})
			return
		}
		days = parsed
	}

	summary, err := h.analyticsService.Summary(days)
	if err != nil {
		h.logger.Analytics().Error("Summary aggregation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
