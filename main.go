package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"buynestt-backend/config"
	"buynestt-backend/database"
	"buynestt-backend/internal/api"
	"buynestt-backend/internal/middleware"
	"buynestt-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}
	if err := database.Seed(db); err != nil {
		logrus.WithError(err).Fatal("Failed to seed catalog")
	}
	if cfg.DemoMode {
		if err := database.SeedDemoRetailer(db); err != nil {
			logrus.WithError(err).Fatal("Failed to seed demo retailer")
		}
	}

	// Services
	catalogService := services.NewCatalogService(db)
	retailerService := services.NewRetailerService(db)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	cartService := services.NewCartService(db, catalogService)
	orderService := services.NewOrderService(db, catalogService, cartService, retailerService)
	recommendService := services.NewRecommendationService(catalogService, cfg.RecommendPerList, cfg.RecommendTotal)
	assistantService := services.NewAssistantService(catalogService, services.AssistantConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	analyticsService := services.NewAnalyticsService(retailerService, orderService, cartService)
	chatService := services.NewChatService(assistantService)

	// Periodic blacklist cleanup keeps revoked-token memory bounded
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			authService.CleanupExpiredTokens()
		}
	}()

	// Handlers
	authHandlers := api.NewAuthHandlers(db, authService, cartService)
	catalogHandlers := api.NewCatalogHandlers(catalogService)
	recommendHandlers := api.NewRecommendHandlers(recommendService, orderService)
	cartHandlers := api.NewCartHandlers(cartService, retailerService)
	orderHandlers := api.NewOrderHandlers(orderService)
	assistantHandlers := api.NewAssistantHandlers(assistantService)
	analyticsHandlers := api.NewAnalyticsHandlers(analyticsService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityMiddleware(&middleware.SecurityConfig{
		MaxRequestSize:    1 * 1024 * 1024,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "buynestt-backend",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandlers.Register)
			auth.POST("/login", authHandlers.Login)
			auth.POST("/logout", authHandlers.Logout)
		}

		v1.GET("/products", catalogHandlers.GetProducts)
		v1.GET("/products/:id", catalogHandlers.GetProduct)
		v1.GET("/recommendations", authMiddleware.OptionalAuth(), recommendHandlers.GetRecommendations)
		v1.POST("/assistant", assistantHandlers.Ask)
		v1.GET("/assistant/ws", chatService.HandleWebSocket)

		protected := v1.Group("")
		protected.Use(authMiddleware.AuthRequired())
		{
			protected.GET("/profile", authHandlers.GetProfile)
			protected.PUT("/profile", authHandlers.UpdateProfile)

			protected.GET("/cart", cartHandlers.GetCart)
			protected.POST("/cart/items", cartHandlers.AddToCart)
			protected.PUT("/cart/items/:productId", cartHandlers.UpdateQuantity)
			protected.DELETE("/cart/items/:productId", cartHandlers.RemoveFromCart)
			protected.DELETE("/cart", cartHandlers.ClearCart)
			protected.POST("/cart/quote", cartHandlers.QuoteCart)

			protected.POST("/orders", orderHandlers.Checkout)
			protected.GET("/orders", orderHandlers.GetOrders)
			protected.GET("/orders/:id", orderHandlers.GetOrder)

			protected.GET("/dashboard", analyticsHandlers.GetDashboard)
			protected.GET("/analytics", analyticsHandlers.GetReport)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.ServerPort(),
			"environment": cfg.Environment,
			"demo_mode":   cfg.DemoMode,
			"assistant":   cfg.AssistantConfigured(),
		}).Info("Buynestt API server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server shutdown complete")
}
