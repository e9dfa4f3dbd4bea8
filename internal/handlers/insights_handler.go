package handlers

import (
	"log"
	"net/http"

	"katha-pos/internal/ai"

	"github.com/gin-gonic/gin"
)

// GetInsights runs the advisory Gemini summary over ledger aggregates.
// This path is allowed to fail: an unreachable model produces a soft
// error here and nothing else.
func (h *Handler) GetInsights(c *gin.Context) {
	if h.cfg.GeminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI insights are not configured"})
		return
	}

	ctx := c.Request.Context()
	sum, err := h.ledger.Summary(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate report"})
		return
	}
	daily, err := h.ledger.DailyRevenue(ctx, 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate report"})
		return
	}

	reply, err := ai.GenerateInsights(ctx, h.cfg.GeminiAPIKey, sum, daily)
	if err != nil {
		log.Printf("AI insights unavailable: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate insights at this time"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": reply})
}
