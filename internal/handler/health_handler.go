package handler

import (
	"net/http"
	"time"

	"catalog-service/internal/tenant"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint. Passing check=db together
// with a tenant key pings that tenant's database through the resolver.
func HealthCheck(resolver *tenant.Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)
		log.Info("Health check requested")

		response := echo.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}

		if c.QueryParam("check") == "db" {
			key := c.QueryParam("tenant")
			conn, err := resolver.Resolve(key)
			if err != nil {
				log.Error("Tenant connection error", zap.String("tenant", key), zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to resolve tenant connection"
				return c.JSON(http.StatusInternalServerError, response)
			}

			sqlDB, err := conn.DB.DB()
			if err != nil {
				log.Error("Database connection error", zap.String("tenant", key), zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to get database connection"
				return c.JSON(http.StatusInternalServerError, response)
			}

			if err := sqlDB.Ping(); err != nil {
				log.Error("Database ping error", zap.String("tenant", key), zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to ping database"
				return c.JSON(http.StatusInternalServerError, response)
			}

			response["db_status"] = "ok"
		}

		return c.JSON(http.StatusOK, response)
	}
}

// Hello returns a simple welcome message
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to Catalog Service API",
		"version": "1.0.0",
	})
}
