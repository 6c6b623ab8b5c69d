package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buynestt-backend/internal/models"
	"buynestt-backend/internal/services"
)

// OrderHandlers serves the order endpoints
type OrderHandlers struct {
	orderService *services.OrderService
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(orderService *services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// Checkout converts the retailer's cart into an order
func (h *OrderHandlers) Checkout(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	// The body is optional; a bare checkout means no promo code
	var req models.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid request data: " + err.Error(),
			})
			return
		}
	}

	order, err := h.orderService.Checkout(retailerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPromoCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid promo code",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    order,
	})
}

// GetOrders returns the retailer's orders, newest first
func (h *OrderHandlers) GetOrders(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	orders, err := h.orderService.GetOrders(retailerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders": orders,
			"count":  len(orders),
		},
	})
}

// GetOrder returns one of the retailer's orders by ID
func (h *OrderHandlers) GetOrder(c *gin.Context) {
	retailerID := c.GetString("retailerID")
	orderID := c.Param("id")

	order, err := h.orderService.GetOrderByID(retailerID, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
