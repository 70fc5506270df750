package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeadPulse/leadpulse-go/internal/application/services"
	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// LeadHandlers contains the admin lead management endpoints.
type LeadHandlers struct {
	leadService *services.LeadService
	logger      *logging.ChanneledLogger
}

// NewLeadHandlers creates lead handlers with injected dependencies
func NewLeadHandlers(leadService *services.LeadService, logger *logging.ChanneledLogger) *LeadHandlers {
	return &LeadHandlers{
		leadService: leadService,
		logger:      logger,
	}
}

// GetLeads handles GET /api/v1/leads - filtered listing, newest first
func (h *LeadHandlers) GetLeads(c *gin.Context) {
	filter := domain.Filter{
		Priority: domain.Priority(c.Query("priority")),
		Status:   domain.Status(c.Query("status")),
		Language: domain.Locale(c.Query("language")),
	}

	if from := c.Query("dateFrom"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateFrom, expected YYYY-MM-DD"})
			return
		}
		filter.DateFrom = parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTo, expected YYYY-MM-DD"})
			return
		}
		filter.DateTo = parsed
	}

	page := domain.Page{
		Limit:  parseIntQuery(c, "limit", 100),
		Offset: parseIntQuery(c, "offset", 0),
	}

	leads, err := h.leadService.List(filter, page)
	if err != nil {
		h.logger.System().Error("Lead listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads, "count": len(leads)})
}

// GetLead handles GET /api/v1/leads/:id
func (h *LeadHandlers) GetLead(c *gin.Context) {
	lead, err := h.leadService.Get(c.Param("id"))
	if err != nil {
		h.logger.System().Error("Lead lookup failed", "error", err.Error(), "leadId", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lead"})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// StatusUpdateRequest is the operator status change payload.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// PutLeadStatus handles PUT /api/v1/leads/:id/status - operator lifecycle changes
func (h *LeadHandlers) PutLeadStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status := domain.Status(req.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}

	updated, err := h.leadService.UpdateStatus(c.Param("id"), status, req.Notes)
	if err != nil {
		h.logger.System().Warn("Lead status update failed", "error", err.Error(), "leadId", c.Param("id"))
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
