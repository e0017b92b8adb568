package handler

import (
	"net/http"

	"catalog-service/internal/catalog"
	"catalog-service/internal/repository"
	"catalog-service/internal/tenant"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityHandler serves the taxonomy entities (categories, subcategories,
// brands, attributes) through one set of routes. Each request builds a
// tenant-scoped service from its descriptor.
type EntityHandler struct {
	resolver   *tenant.Resolver
	entity     string
	descriptor repository.Descriptor
	build      func(store catalog.EntityStore, db *gorm.DB, log *zap.Logger) *catalog.EntityService
	filters    []string
}

// NewCategoryHandler builds the handler for categories
func NewCategoryHandler(resolver *tenant.Resolver) *EntityHandler {
	return &EntityHandler{
		resolver:   resolver,
		entity:     "category",
		descriptor: repository.CategoryDescriptor(),
		build: func(store catalog.EntityStore, _ *gorm.DB, log *zap.Logger) *catalog.EntityService {
			return catalog.NewCategoryService(store, log)
		},
		filters: []string{"name", "status", "includeDeleted"},
	}
}

// NewSubcategoryHandler builds the handler for subcategories
func NewSubcategoryHandler(resolver *tenant.Resolver) *EntityHandler {
	return &EntityHandler{
		resolver:   resolver,
		entity:     "subcategory",
		descriptor: repository.SubcategoryDescriptor(),
		build: func(store catalog.EntityStore, db *gorm.DB, log *zap.Logger) *catalog.EntityService {
			return catalog.NewSubcategoryService(store, repository.NewRefs(db), log)
		},
		filters: []string{"name", "status", "category", "includeDeleted"},
	}
}

// NewBrandHandler builds the handler for brands
func NewBrandHandler(resolver *tenant.Resolver) *EntityHandler {
	return &EntityHandler{
		resolver:   resolver,
		entity:     "brand",
		descriptor: repository.BrandDescriptor(),
		build: func(store catalog.EntityStore, _ *gorm.DB, log *zap.Logger) *catalog.EntityService {
			return catalog.NewBrandService(store, log)
		},
		filters: []string{"name", "includeDeleted"},
	}
}

// NewAttributeHandler builds the handler for attributes
func NewAttributeHandler(resolver *tenant.Resolver) *EntityHandler {
	return &EntityHandler{
		resolver:   resolver,
		entity:     "attribute",
		descriptor: repository.AttributeDescriptor(),
		build: func(store catalog.EntityStore, _ *gorm.DB, log *zap.Logger) *catalog.EntityService {
			return catalog.NewAttributeService(store, log)
		},
		filters: []string{"name", "status", "includeDeleted"},
	}
}

func (h *EntityHandler) service(c echo.Context) (*catalog.EntityService, error) {
	conn, err := tenantConn(c, h.resolver)
	if err != nil {
		return nil, err
	}
	store := repository.NewBase(conn.DB, h.descriptor)
	return h.build(store, conn.DB, logger.FromEcho(c)), nil
}

// List handles retrieving entities with filtering and pagination
func (h *EntityHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing entities", zap.String("entity", h.entity))

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	query := listQueryFromRequest(c, h.filters)
	result, err := svc.GetAll(c.Request().Context(), query)
	if err != nil {
		log.Error("Failed to list entities", zap.String("entity", h.entity), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve records"})
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles retrieving a single entity by ID
func (h *EntityHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Getting entity by ID", zap.String("entity", h.entity), zap.String("id", id))

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to get entity", zap.String("entity", h.entity), zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve record"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}

// Create handles creating a new entity
func (h *EntityHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating entity", zap.String("entity", h.entity))

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
		log.Error("Failed to create entity", zap.String("entity", h.entity), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create record"})
	}
	return c.JSON(statusFor(res, http.StatusCreated), res)
}

// Update handles updating an existing entity
func (h *EntityHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Updating entity", zap.String("entity", h.entity), zap.String("id", id))

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		log.Error("Invalid request data", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.Update(c.Request().Context(), id, payload)
	if err != nil {
		log.Error("Failed to update entity", zap.String("entity", h.entity), zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update record"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}

// Delete handles deleting an entity (soft delete)
func (h *EntityHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Deleting entity", zap.String("entity", h.entity), zap.String("id", id))

	svc, err := h.service(c)
	if err != nil {
		log.Error("Failed to resolve tenant connection", zap.Error(err))
		return connFailure(c, err)
	}

	res, err := svc.Delete(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to delete entity", zap.String("entity", h.entity), zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete record"})
	}
	return c.JSON(statusFor(res, http.StatusOK), res)
}
