package handler

import (
	"net/http"
	"strconv"
	"strings"

	"catalog-service/internal/catalog"
	"catalog-service/internal/repository"
	"catalog-service/internal/tenant"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandler exposes the product data engine over HTTP
type ProductHandler struct {
	resolver *tenant.Resolver
}

// NewProductHandler builds the product handler
func NewProductHandler(resolver *tenant.Resolver) *ProductHandler {
	return &ProductHandler{resolver: resolver}
}

func (h *ProductHandler) service(c echo.Context) (*catalog.ProductService, error) {
	conn, err := tenantConn(c, h.resolver)
	if err != nil {
		return nil, err
	}
	store := repository.NewProductRepository(conn.DB)
	refs := repository.NewRefs(conn.DB)
	return catalog.NewProductService(store, refs, logger.FromEcho(c)), nil
}

// ListProducts handles retrieving products with filtering and pagination
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing products")

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	query := listQueryFromRequest(c, []string{"name", "category", "subcategory", "brand", "isTopRated", "includeDeleted"})
	result, err := svc.GetAll(c.Request().Context(), query)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully",
		zap.Int("count", len(result.Result)),
		zap.Int64("total", result.TotalDocuments))
	return c.JSON(http.StatusOK, result)
}

// GetProduct handles retrieving a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Getting product by ID", zap.String("product_id", id))

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.GetByID(c.Request().Context(), id, splitParam(c.QueryParam("populate")))
	if err != nil {
		log.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve product"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new product")

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.Create(c.Request().Context(), payload)
	if err != nil {
		log.Error("Failed to create product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}
	return c.JSON(statusFor(res, http.StatusCreated), res)
}

// UpdateProduct handles updating an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Updating product", zap.String("product_id", id))

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.Update(c.Request().Context(), id, payload)
	if err != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}

// DeleteProduct handles deleting a product (soft delete)
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Deleting product", zap.String("product_id", id))

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.Delete(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}

// listQueryFromRequest builds a ListQuery from query parameters
func listQueryFromRequest(c echo.Context, filterKeys []string) catalog.ListQuery {
	query := catalog.ListQuery{
		Filters:  make(map[string]any),
		Sort:     c.QueryParam("sort"),
		Populate: splitParam(c.QueryParam("populate")),
		Select:   splitParam(c.QueryParam("select")),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		query.Limit = limit
	}
	for _, key := range filterKeys {
		if v := c.QueryParam(key); v != "" {
			query.Filters[key] = v
		}
	}
	return query
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
