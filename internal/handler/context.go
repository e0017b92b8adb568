package handler

import (
	"errors"
	"net/http"

	"catalog-service/internal/catalog"
	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/internal/tenant"

	"github.com/labstack/echo/v4"
)

// Entity registration order matters on first use: referenced tables before
// the tables that point at them.
var registrations = []struct {
	name      string
	prototype any
}{
	{"category", &model.Category{}},
	{"subcategory", &model.Subcategory{}},
	{"brand", &model.Brand{}},
	{"attribute", &model.Attribute{}},
	{"product", &model.Product{}},
}

// tenantConn resolves the request's tenant connection and lazily registers
// the catalog entities on it. The tenant key is mandatory on every
// operation; a request without one fails before any storage call.
func tenantConn(c echo.Context, resolver *tenant.Resolver) (*tenant.Conn, error) {
	key, ok := middleware.GetTenantKeyFromContext(c)
	if !ok {
		return nil, &catalog.ConnectionError{Tenant: ""}
	}
	conn, err := resolver.Resolve(key)
	if err != nil {
		return nil, err
	}
	for _, reg := range registrations {
		if _, err := conn.Register(reg.name, reg.prototype); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// statusFor maps an engine result onto an HTTP status code
func statusFor(res catalog.Result, createdStatus int) int {
	if res.Success {
		return createdStatus
	}
	var (
		ve *catalog.ValidationError
		de *catalog.DuplicateError
		nf *catalog.NotFoundError
		ce *catalog.ConnectionError
	)
	switch {
	case errors.As(res.Err, &ve):
		return http.StatusBadRequest
	case errors.As(res.Err, &de):
		return http.StatusConflict
	case errors.As(res.Err, &nf):
		return http.StatusNotFound
	case errors.As(res.Err, &ce):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// connFailure maps a tenant resolution failure onto the transport
func connFailure(c echo.Context, err error) error {
	var ce *catalog.ConnectionError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
