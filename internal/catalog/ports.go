package catalog

import (
	"context"

	"catalog-service/internal/model"
)

// Pagination is the slice of getAll bookkeeping the stores report back
type Pagination struct {
	CurrentPage    int
	TotalPages     int
	TotalDocuments int64
}

// ProductStore is the storage port the product service writes through. The
// mapped methods go through the schema-validated path; the Raw methods bypass
// it and address the record by its canonical identifier.
type ProductStore interface {
	Insert(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string, populate []string) (*model.Product, error)
	List(ctx context.Context, q ListQuery) ([]model.Product, Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error)
	SoftDelete(ctx context.Context, id string) error
	HasLiveNameOrSlug(ctx context.Context, name, slug, excludeID string) (bool, error)

	// ResolveID re-resolves the canonical storage identifier of a live record
	// so the mapped and raw paths address the identical row
	ResolveID(ctx context.Context, id string) (string, error)
	WriteAttributeRowsRaw(ctx context.Context, id string, rows []map[string]any) error
	ReadAttributeRowsRaw(ctx context.Context, id string) ([]map[string]any, error)
}

// EntityStore is the storage port shared by the taxonomy services
// (category, subcategory, brand, attribute)
type EntityStore interface {
	Insert(ctx context.Context, doc map[string]any) (map[string]any, error)
	FindByID(ctx context.Context, id string) (map[string]any, error)
	List(ctx context.Context, q ListQuery) ([]map[string]any, Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error)
	SoftDelete(ctx context.Context, id string) error
	HasLiveNameOrSlug(ctx context.Context, name, slug, excludeID string) (bool, error)
}
