package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buynestt-backend/internal/services"
)

// AssistantHandlers serves the shopping assistant endpoint
type AssistantHandlers struct {
	assistantService *services.AssistantService
}

// NewAssistantHandlers creates new assistant handlers
func NewAssistantHandlers(assistantService *services.AssistantService) *AssistantHandlers {
	return &AssistantHandlers{assistantService: assistantService}
}

// Ask answers a free-text message. A missing or non-string message is a
// bad request; upstream outages are absorbed and never surface as errors.
func (h *AssistantHandlers) Ask(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Message is required",
		})
		return
	}

	reply := h.assistantService.Respond(c.Request.Context(), req.Message)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"response": reply,
		},
	})
}
