package main

import (
	"catalog-service/internal/handler"
	mid "catalog-service/internal/middleware"
	"catalog-service/internal/tenant"
	"catalog-service/pkg/config"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Just log a warning, don't fail if .env file is not found
		// This allows the service to run in environments where env vars are set differently
		// such as production environments with proper environment configuration
		// The fallback values will be used in case env vars are not set
	}

	// Load configuration
	appConfig, err := config.Load("catalog-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port),
		zap.Strings("tenants", appConfig.Tenant.Keys))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Tenant connections are opened lazily on first request per tenant
	resolver := tenant.NewResolver(appConfig, log)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck(resolver))

	// Legacy route
	e.GET("/catalog/hello", handler.Hello)

	products := handler.NewProductHandler(resolver)
	categories := handler.NewCategoryHandler(resolver)
	subcategories := handler.NewSubcategoryHandler(resolver)
	brands := handler.NewBrandHandler(resolver)
	attributes := handler.NewAttributeHandler(resolver)

	// Product API routes - Apply auth middleware to validate JWT and extract tenant key
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", products.ListProducts)
	productAPI.GET("/:id", products.GetProduct)
	productAPI.POST("", products.CreateProduct)
	productAPI.PUT("/:id", products.UpdateProduct)
	productAPI.DELETE("/:id", products.DeleteProduct)

	// Taxonomy API routes - Apply auth middleware to validate JWT and extract tenant key
	for _, group := range []struct {
		prefix  string
		handler *handler.EntityHandler
	}{
		{"/api/categories", categories},
		{"/api/subcategories", subcategories},
		{"/api/brands", brands},
		{"/api/attributes", attributes},
	} {
		api := e.Group(group.prefix, mid.AuthMiddleware)
		api.GET("", group.handler.List)
		api.GET("/:id", group.handler.Get)
		api.POST("", group.handler.Create)
		api.PUT("/:id", group.handler.Update)
		api.DELETE("/:id", group.handler.Delete)
	}

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
