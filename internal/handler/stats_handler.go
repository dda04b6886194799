package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// StatsHandler serves the analytics endpoints backed by the aggregator
type StatsHandler struct {
	stats  service.StatsService
	logger *logger.Logger
}

// NewStatsHandler creates a stats handler with dependencies
func NewStatsHandler(stats service.StatsService, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// Dashboard handles GET /api/v1/analytics/dashboard (authenticated)
// Returns the caller's full dashboard payload
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	stats, err := h.stats.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute user stats", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UserStats handles GET /api/v1/user/stats (authenticated)
// Returns the compact per-user summary
func (h *StatsHandler) UserStats(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	stats, err := h.stats.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute user stats", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url_count":    stats.TotalURLs,
		"total_clicks": stats.TotalClicks,
	})
}

// PublicStats handles GET /api/v1/stats/public
// Served from the aggregator's bounded-staleness cache; responses are
// cacheable downstream for the same window.
func (h *StatsHandler) PublicStats(c *gin.Context) {
	stats, err := h.stats.GetGlobalStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute global stats", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, stats)
}
