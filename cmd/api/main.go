package main

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	handlers "github.com/rentflow/payment-gateway/internal/adapter/primary/http"
	"github.com/rentflow/payment-gateway/internal/adapter/secondary/database"
	"github.com/rentflow/payment-gateway/internal/adapter/secondary/gateway"
	"github.com/rentflow/payment-gateway/internal/adapter/secondary/messaging"
	"github.com/rentflow/payment-gateway/internal/config"
	"github.com/rentflow/payment-gateway/internal/constant/model/db"
	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/core/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Initialize secondary adapters: repositories, gateway, messaging
	paymentRepo := database.NewGormPaymentRepository(dbConn.DB)
	userRepo := database.NewGormUserRepository(dbConn.DB)
	tenantRepo := database.NewGormTenantRepository(dbConn.DB)
	propertyRepo := database.NewGormPropertyRepository(dbConn.DB)

	darajaClient := gateway.NewDarajaClient(gateway.Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		Shortcode:      cfg.MpesaShortcode,
		Passkey:        cfg.MpesaPasskey,
		CallbackURL:    cfg.MpesaCallbackURL,
		Timeout:        cfg.MpesaTimeout,
	}, log)

	msgClient, err := messaging.NewRabbitMQClient(cfg.AMQPURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer msgClient.Close()

	// Initialize core services (implement input ports)
	paymentService := service.NewPaymentService(paymentRepo, tenantRepo, propertyRepo, darajaClient, log)
	callbackService := service.NewCallbackService(paymentRepo, msgClient, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, log)
	tenantService := service.NewTenantService(tenantRepo, propertyRepo, log)
	propertyService := service.NewPropertyService(propertyRepo, log)

	// Initialize primary adapters: HTTP handlers (use input ports)
	paymentHandler := handlers.NewPaymentHandler(paymentService, callbackService, log)
	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)

	// Initialize Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	auth := handlers.Auth(cfg.JWTSecret, userRepo)
	staffOnly := handlers.RequireRoles(core.RoleAdmin, core.RolePropertyManager)
	adminOnly := handlers.RequireRoles(core.RoleAdmin)
	tenantOnly := handlers.RequireRoles(core.RoleTenant)

	// Routes
	api := e.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, auth)

	api.GET("/payments", paymentHandler.ListPayments, auth)
	api.GET("/payments/:id", paymentHandler.GetPayment, auth)
	api.POST("/payments", paymentHandler.CreateManualPayment, auth, staffOnly)
	api.POST("/payments/mpesa", paymentHandler.InitiateMpesa, auth, tenantOnly)
	// The gateway calls back unauthenticated; the handler acknowledges
	// every structurally valid payload.
	api.POST("/payments/mpesa/callback", paymentHandler.MpesaCallback)

	api.GET("/tenants", tenantHandler.ListTenants, auth)
	api.GET("/tenants/:id", tenantHandler.GetTenant, auth)
	api.POST("/tenants", tenantHandler.CreateTenant, auth, staffOnly)
	api.PUT("/tenants/:id", tenantHandler.UpdateTenant, auth, staffOnly)
	api.DELETE("/tenants/:id", tenantHandler.DeleteTenant, auth, adminOnly)

	api.GET("/properties", propertyHandler.ListProperties, auth)
	api.GET("/properties/:id", propertyHandler.GetProperty, auth)
	api.POST("/properties", propertyHandler.CreateProperty, auth, staffOnly)
	api.PUT("/properties/:id", propertyHandler.UpdateProperty, auth, staffOnly)
	api.DELETE("/properties/:id", propertyHandler.DeleteProperty, auth, adminOnly)

	// Health check and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Starting API server on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
