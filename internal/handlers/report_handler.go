package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSalesReport assembles the admin dashboard payload: all-time
// aggregates, best sellers and the recent-sales feed.
func (h *Handler) GetSalesReport(c *gin.Context) {
	ctx := c.Request.Context()

	sum, err := h.ledger.Summary(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	top, err := h.ledger.TopSelling(ctx, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	recent, err := h.ledger.RecentTransactions(ctx, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_revenue":      sum.TotalRevenue,
		"total_transactions": sum.TransactionCount,
		"outstanding_debt":   sum.OutstandingDebt,
		"debtor_count":       sum.DebtorCount,
		"top_selling":        top,
		"recent_sales":       recent,
	})
}

// GetDailyRevenue feeds the revenue chart. ?days=N, default 7.
func (h *Handler) GetDailyRevenue(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		days = n
	}

	series, err := h.ledger.DailyRevenue(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate daily revenue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_revenue": series})
}
