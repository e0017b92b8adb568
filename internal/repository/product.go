package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"gorm.io/gorm"
)

// ProductRepository carries both write paths for products: the GORM-mapped
// path that enforces the declared shapes, and the raw SQL path against the
// attribute_set jsonb column that bypasses them.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a product repository on a tenant connection
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var productPreloads = map[string]string{
	"category":    "Category",
	"subcategory": "Subcategory",
	"brand":       "Brand",
}

// Insert creates a product through the mapped path
func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("product_insert")(time.Now())
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID returns a live product, optionally with references populated
func (r *ProductRepository) FindByID(ctx context.Context, id string, populate []string) (*model.Product, error) {
	query := r.db.WithContext(ctx)
	for _, field := range populate {
		if relation, ok := productPreloads[field]; ok {
			query = query.Preload(relation)
		}
	}

	var p model.Product
	err := query.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &catalog.NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of products with the pagination bookkeeping
func (r *ProductRepository) List(ctx context.Context, q catalog.ListQuery) ([]model.Product, catalog.Pagination, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Product{})
	query = applyFilters(query, q.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, catalog.Pagination{}, err
	}

	query = applySort(query, q.Sort)
	query = applySelect(query, q.Select)
	for _, field := range q.Populate {
		if relation, ok := productPreloads[field]; ok {
			query = query.Preload(relation)
		}
	}
	page := applyPaging(&query, q.Page, q.Limit, total)

	var records []model.Product
	if err := query.Find(&records).Error; err != nil {
		return nil, catalog.Pagination{}, err
	}
	return records, page, nil
}

// UpdateFields applies column-keyed fields through the mapped path
func (r *ProductRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	defer prometheus.TrackDBOperation("product_update")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SoftDelete marks a product deleted; never a physical delete
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &catalog.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

// HasLiveNameOrSlug reports whether a live product collides on name
// (case-insensitive) or slug
func (r *ProductRepository) HasLiveNameOrSlug(ctx context.Context, name, slug, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("LOWER(name) = ? OR slug = ?", strings.ToLower(name), slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveID re-resolves the canonical storage identifier of a live product
func (r *ProductRepository) ResolveID(ctx context.Context, id string) (string, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Select("id").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &catalog.NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// WriteAttributeRowsRaw replaces the attribute_set column directly, bypassing
// the mapped types, so sub-fields the declared shape does not model persist.
func (r *ProductRepository) WriteAttributeRowsRaw(ctx context.Context, id string, rows []map[string]any) error {
	defer prometheus.TrackDBOperation("product_raw_write")(time.Now())

	buf, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET attribute_set = ?::jsonb, updated_at = NOW() WHERE id = ? AND deleted_at IS NULL",
		string(buf), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no live product row for %q", id)
	}
	return nil
}

// ReadAttributeRowsRaw reads the attribute_set column directly to observe
// exactly what is persisted, independent of the mapped types
func (r *ProductRepository) ReadAttributeRowsRaw(ctx context.Context, id string) ([]map[string]any, error) {
	defer prometheus.TrackDBOperation("product_raw_read")(time.Now())

	var raw []byte
	row := r.db.WithContext(ctx).
		Raw("SELECT attribute_set FROM products WHERE id = ?", id).
		Row()
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
