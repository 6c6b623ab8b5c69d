package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"buynestt-backend/internal/services"
)

// RecommendHandlers serves the recommendation endpoints
type RecommendHandlers struct {
	recommendService *services.RecommendationService
	orderService     *services.OrderService
}

// NewRecommendHandlers creates new recommendation handlers
func NewRecommendHandlers(recommendService *services.RecommendationService, orderService *services.OrderService) *RecommendHandlers {
	return &RecommendHandlers{
		recommendService: recommendService,
		orderService:     orderService,
	}
}

// GetRecommendations returns recommendation lists. The "type" query selects
// a single list (frequent, trending, personalized); when omitted all three
// lists are combined. Authentication is optional: a signed-in retailer's own
// order history seeds the personalized list, anonymous callers get the
// platform-wide ranking.
func (h *RecommendHandlers) GetRecommendations(c *gin.Context) {
	selector := c.Query("type")

	var callerHistory map[string]int
	if retailerID := c.GetString("retailerID"); retailerID != "" {
		history, err := h.orderService.PurchaseCounts(retailerID)
		if err != nil {
			logrus.WithError(err).Warn("failed to load caller purchase history")
		} else {
			callerHistory = history
		}
	}

	recommendations, err := h.recommendService.RecommendFor(selector, callerHistory)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"recommendations": recommendations,
			"count":           len(recommendations),
		},
	})
}
