package middleware

import (
	"net/http"
	"strings"

	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the tenant key every
// downstream operation is scoped by
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		if prometheus.AuthAttemptsCounter != nil {
			prometheus.AuthAttemptsCounter.Inc()
		}

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			if prometheus.AuthErrorsCounter != nil {
				prometheus.AuthErrorsCounter.Inc()
			}
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		// The tenant key is mandatory: there is no default connection to
		// silently fall back to
		if claims.TenantKey == "" {
			log.Warn("JWT token does not contain tenant_key")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_key is required in the token"})
		}

		c.Set("tenant_key", claims.TenantKey)
		c.Set("tenant_name", claims.TenantName)
		c.Set("user_role", claims.Role)
		log.Info("Request authenticated with tenant context",
			zap.String("tenant_key", claims.TenantKey),
			zap.String("tenant_name", claims.TenantName),
			zap.String("role", claims.Role))

		// Token is valid, proceed with the request
		return next(c)
	}
}

// GetTenantKeyFromContext retrieves the tenant key from the context.
// Returns "", false if the tenant key is not found.
func GetTenantKeyFromContext(c echo.Context) (string, bool) {
	key, ok := c.Get("tenant_key").(string)
	return key, ok && key != ""
}
