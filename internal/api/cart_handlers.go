package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buynestt-backend/internal/models"
	"buynestt-backend/internal/services"
)

// CartHandlers serves the cart endpoints
type CartHandlers struct {
	cartService     *services.CartService
	retailerService *services.RetailerService
}

// NewCartHandlers creates new cart handlers
func NewCartHandlers(cartService *services.CartService, retailerService *services.RetailerService) *CartHandlers {
	return &CartHandlers{
		cartService:     cartService,
		retailerService: retailerService,
	}
}

// cartPayload bundles the cart lines with their price quote
func (h *CartHandlers) cartPayload(retailerID string, items []models.CartItem, promoCode string) (gin.H, error) {
	retailer, err := h.retailerService.GetRetailerByID(retailerID)
	if err != nil {
		return nil, err
	}

	promoPercent, err := h.cartService.ValidatePromoCode(promoCode)
	if err != nil {
		return nil, err
	}

	quote := services.Quote(items, retailer, promoPercent)
	return gin.H{
		"items": items,
		"quote": quote,
	}, nil
}

// GetCart returns the retailer's cart with its quote
func (h *CartHandlers) GetCart(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	items, err := h.cartService.GetCart(retailerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get cart",
		})
		return
	}

	payload, err := h.cartPayload(retailerID, items, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// AddToCart adds a product to the cart, accumulating quantity for lines
// that already exist
func (h *CartHandlers) AddToCart(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	var req models.CartAdd
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	items, err := h.cartService.AddToCart(retailerID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	payload, err := h.cartPayload(retailerID, items, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item added to cart",
		"data":    payload,
	})
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line.
func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	retailerID := c.GetString("retailerID")
	productID := c.Param("productId")

	var req models.CartQuantityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	items, err := h.cartService.UpdateQuantity(retailerID, productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	payload, err := h.cartPayload(retailerID, items, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart updated",
		"data":    payload,
	})
}

// RemoveFromCart removes a product line from the cart
func (h *CartHandlers) RemoveFromCart(c *gin.Context) {
	retailerID := c.GetString("retailerID")
	productID := c.Param("productId")

	items, err := h.cartService.RemoveFromCart(retailerID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to remove item",
		})
		return
	}

	payload, err := h.cartPayload(retailerID, items, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
		"data":    payload,
	})
}

// ClearCart removes every line from the cart
func (h *CartHandlers) ClearCart(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	if err := h.cartService.ClearCart(retailerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}

// QuoteCart prices the cart with an optional promo code. An invalid code
// is rejected and leaves the cart untouched.
func (h *CartHandlers) QuoteCart(c *gin.Context) {
	retailerID := c.GetString("retailerID")

	var req struct {
		PromoCode string `json:"promoCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	items, err := h.cartService.GetCart(retailerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get cart",
		})
		return
	}

	payload, err := h.cartPayload(retailerID, items, req.PromoCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPromoCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid promo code",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}
