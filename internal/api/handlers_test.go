package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buynestt-backend/database"
	"buynestt-backend/internal/middleware"
	"buynestt-backend/internal/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	catalogService := services.NewCatalogService(db)
	retailerService := services.NewRetailerService(db)
	authService := services.NewAuthService("test-secret", 3600)
	cartService := services.NewCartService(db, catalogService)
	orderService := services.NewOrderService(db, catalogService, cartService, retailerService)
	recommendService := services.NewRecommendationService(catalogService, 6, 18)
	assistantService := services.NewAssistantService(catalogService, services.AssistantConfig{
		BaseURL: "http://127.0.0.1:0",
		Model:   "test",
		Timeout: time.Second,
	})

	authHandlers := NewAuthHandlers(db, authService, cartService)
	catalogHandlers := NewCatalogHandlers(catalogService)
	recommendHandlers := NewRecommendHandlers(recommendService, orderService)
	cartHandlers := NewCartHandlers(cartService, retailerService)
	orderHandlers := NewOrderHandlers(orderService)
	assistantHandlers := NewAssistantHandlers(assistantService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandlers.Register)
	v1.POST("/auth/login", authHandlers.Login)
	v1.POST("/auth/logout", authHandlers.Logout)
	v1.GET("/products", catalogHandlers.GetProducts)
	v1.GET("/products/:id", catalogHandlers.GetProduct)
	v1.GET("/recommendations", authMiddleware.OptionalAuth(), recommendHandlers.GetRecommendations)
	v1.POST("/assistant", assistantHandlers.Ask)

	protected := v1.Group("")
	protected.Use(authMiddleware.AuthRequired())
	protected.GET("/cart", cartHandlers.GetCart)
	protected.POST("/cart/items", cartHandlers.AddToCart)
	protected.POST("/cart/quote", cartHandlers.QuoteCart)
	protected.POST("/orders", orderHandlers.Checkout)

	return router, db
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     email,
		"password":  "Str0ngPass1",
		"shopName":  "Handler Test Store",
		"ownerName": "Handler Owner",
		"region":    "Test Region",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestAssistantEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("MissingMessageIsBadRequest", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/assistant", "", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonStringMessageIsBadRequest", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/assistant", "", gin.H{"message": 42})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("FallbackAnswersWithoutUpstream", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/assistant", "", gin.H{"message": "free delivery"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Response string `json:"response"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Data.Response, "₹2000")
	})
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("RegisterLoginLogoutFlow", func(t *testing.T) {
		token := registerAndLogin(t, router, "flow@example.com")

		w := doJSON(router, http.MethodGet, "/api/v1/cart", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, http.MethodPost, "/api/v1/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		// Revoked token no longer opens protected routes
		w = doJSON(router, http.MethodGet, "/api/v1/cart", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("LoginWithWrongPasswordFails", func(t *testing.T) {
		registerAndLogin(t, router, "wrongpass@example.com")

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "wrongpass@example.com",
			"password": "Different1Pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ProtectedRouteWithoutTokenFails", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "cartapi@example.com")

	t.Run("AddAndQuote", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
			"productId": "1",
			"quantity":  10,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(router, http.MethodPost, "/api/v1/cart/quote", token, gin.H{"promoCode": "SAVE10"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Quote struct {
					Subtotal      float64 `json:"subtotal"`
					PromoDiscount float64 `json:"promoDiscount"`
					DeliveryFee   float64 `json:"deliveryFee"`
				} `json:"quote"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1200.0, resp.Data.Quote.Subtotal)
		assert.Equal(t, 120.0, resp.Data.Quote.PromoDiscount)
		assert.Equal(t, 50.0, resp.Data.Quote.DeliveryFee)
	})

	t.Run("InvalidPromoCodeIsRejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/cart/quote", token, gin.H{"promoCode": "NOPE"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ZeroQuantityAddIsRejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
			"productId": "1",
			"quantity":  0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CheckoutCreatesOrder", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/orders", token, gin.H{})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Cart is empty afterwards, so a second checkout fails
		w = doJSON(router, http.MethodPost, "/api/v1/orders", token, gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CheckoutWithoutBodySucceeds", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
			"productId": "2",
			"quantity":  5,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(router, http.MethodPost, "/api/v1/orders", token, nil)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("PersonalizedListUsesOwnOrders", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/recommendations?type=personalized", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Recommendations []struct {
					ID string `json:"id"`
				} `json:"recommendations"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Data.Recommendations)

		// The retailer's own orders seed the list: product 1's strongest
		// co-purchase partner leads
		assert.Equal(t, "7", resp.Data.Recommendations[0].ID)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("ListsSeedCatalog", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 8)
	})

	t.Run("UnknownProductIs404", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/products/999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RecommendationsWithUnknownTypeFail", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/recommendations?type=bogus", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RecommendationsDefaultToAllLists", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/recommendations", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Count int `json:"count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Greater(t, resp.Data.Count, 0)
		assert.LessOrEqual(t, resp.Data.Count, 18)
	})
}
