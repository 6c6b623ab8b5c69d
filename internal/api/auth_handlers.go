package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"buynestt-backend/internal/models"
	"buynestt-backend/internal/services"
)

// AuthHandlers contains all authentication-related handlers
type AuthHandlers struct {
	retailerService *services.RetailerService
	authService     *services.AuthService
	cartService     *services.CartService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(db *sql.DB, authService *services.AuthService, cartService *services.CartService) *AuthHandlers {
	return &AuthHandlers{
		retailerService: services.NewRetailerService(db),
		authService:     authService,
		cartService:     cartService,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// AuthData represents the data in auth response
type AuthData struct {
	Retailer *models.Retailer `json:"retailer,omitempty"`
	Token    string           `json:"token,omitempty"`
}

// Register handles retailer registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RetailerRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	retailer, err := h.retailerService.CreateRetailer(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	token, err := h.authService.GenerateToken(retailer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Registration successful",
		Data: &AuthData{
			Retailer: retailer,
			Token:    token,
		},
	})
}

// Login handles retailer authentication
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.RetailerLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	retailer, err := h.retailerService.AuthenticateRetailer(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	token, err := h.authService.GenerateToken(retailer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Data: &AuthData{
			Retailer: retailer,
			Token:    token,
		},
	})
}

// Logout revokes the current token and clears the retailer's cart.
// Logout always succeeds; a missing or invalid token is not an error.
func (h *AuthHandlers) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != "" {
			if claims, err := h.authService.ValidateToken(token); err == nil {
				if err := h.cartService.ClearCart(claims.RetailerID); err != nil {
					logrus.WithError(err).Warn("failed to clear cart on logout")
				}
			}
			if err := h.authService.BlacklistToken(token); err != nil {
				logrus.WithError(err).Warn("failed to blacklist token on logout")
			}
		}
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logout successful",
	})
}

// GetProfile returns the authenticated retailer's profile
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	retailerID := c.GetString("retailerID")
	if retailerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Retailer not authenticated",
		})
		return
	}

	retailer, err := h.retailerService.GetRetailerByID(retailerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Retailer not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    retailer,
	})
}

// UpdateProfile updates the authenticated retailer's profile
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	retailerID := c.GetString("retailerID")
	if retailerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Retailer not authenticated",
		})
		return
	}

	var req models.RetailerProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	retailer, err := h.retailerService.UpdateRetailer(retailerID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    retailer,
	})
}
