package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buynestt-backend/internal/services"
)

// CatalogHandlers serves the product catalog endpoints
type CatalogHandlers struct {
	catalogService *services.CatalogService
}

// NewCatalogHandlers creates new catalog handlers
func NewCatalogHandlers(catalogService *services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalogService: catalogService}
}

// GetProducts returns the full product catalog. An optional "q" query
// filters by name, category or tag; an optional "category" query filters
// by category.
func (h *CatalogHandlers) GetProducts(c *gin.Context) {
	var (
		products interface{}
		err      error
	)

	if query := c.Query("q"); query != "" {
		products, err = h.catalogService.SearchProducts(query)
	} else if category := c.Query("category"); category != "" {
		products, err = h.catalogService.GetProductsByCategory(category)
	} else {
		products, err = h.catalogService.GetProducts()
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct returns a single product by ID
func (h *CatalogHandlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.catalogService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}
