package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buynestt-backend/internal/services"
)

// AnalyticsHandlers serves the dashboard and analytics endpoints
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandlers creates new analytics handlers
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// GetDashboard returns the retailer's dashboard summary
func (h *AnalyticsHandlers) GetDashboard(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	stats, err := h.analyticsService.Dashboard(retailerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to build dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetReport returns the retailer's analytics report
func (h *AnalyticsHandlers) GetReport(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	report, err := h.analyticsService.Report(retailerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to build analytics report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}
