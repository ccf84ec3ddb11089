package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"invoicely/internal/auth"
	"invoicely/internal/config"
	"invoicely/internal/handlers"
	"invoicely/internal/middleware"
	"invoicely/internal/repositories"
	"invoicely/internal/services"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Signing secret is process-wide and loaded once. A deployment without one
	// gets a random per-process secret, which invalidates tokens on restart.
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET is not set; using a generated secret. Tokens will not survive a restart.")
	}

	// Storage backend selected by configuration, not source-level branching.
	stores, closeStores, err := repositories.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStores()

	tokens := auth.NewTokenIssuer(jwtSecret, cfg.TokenTTL)

	authService := services.NewAuthService(stores.Users, tokens, cfg.StorageTimeout)
	invoiceService := services.NewInvoiceService(stores.Invoices, cfg.StorageTimeout)

	authHandlers := handlers.NewAuthHandlers(authService)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceService)

	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")

	// Authentication routes (no token required)
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)

	// Protected routes
	protected := api.Group("", middleware.RequireAuth(tokens))
	protected.GET("/user/profile", authHandlers.Profile)
	protected.POST("/invoices", invoiceHandlers.Create)
	protected.GET("/invoices", invoiceHandlers.List)

	log.Printf("invoicely v%s starting on port %d (storage: %s)", version, cfg.Port, cfg.StorageBackend)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
