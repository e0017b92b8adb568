package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"gorm.io/gorm"
)

// Base is the generic CRUD module behind every taxonomy entity. Soft
// deletion rides on gorm.DeletedAt: the default scope only sees live rows,
// Unscoped is the explicit opt-in for deleted ones.
type Base struct {
	db   *gorm.DB
	desc Descriptor
}

// NewBase builds a CRUD base for one entity on a tenant connection
func NewBase(db *gorm.DB, desc Descriptor) *Base {
	return &Base{db: db, desc: desc}
}

// Insert creates a record from a canonical document
func (b *Base) Insert(ctx context.Context, doc map[string]any) (map[string]any, error) {
	defer prometheus.TrackDBOperation(b.desc.Entity + "_insert")(time.Now())

	rec := b.desc.FromDoc(doc)
	if err := b.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return b.desc.ToDoc(rec), nil
}

// FindByID returns a live record as a canonical document
func (b *Base) FindByID(ctx context.Context, id string) (map[string]any, error) {
	rec := b.desc.New()
	err := b.db.WithContext(ctx).First(rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &catalog.NotFoundError{Entity: b.desc.Entity, ID: id}
	}
	if err != nil {
		return nil, err
	}
	return b.desc.ToDoc(rec), nil
}

// List returns a page of documents with the pagination bookkeeping
func (b *Base) List(ctx context.Context, q catalog.ListQuery) ([]map[string]any, catalog.Pagination, error) {
	defer prometheus.TrackDBOperation(b.desc.Entity + "_list")(time.Now())

	query := b.db.WithContext(ctx).Model(b.desc.New())
	query = applyFilters(query, q.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, catalog.Pagination{}, err
	}

	query = applySort(query, q.Sort)
	query = applySelect(query, q.Select)
	page := applyPaging(&query, q.Page, q.Limit, total)

	dest := b.desc.NewSlice()
	if err := query.Find(dest).Error; err != nil {
		return nil, catalog.Pagination{}, err
	}
	return b.desc.SliceDocs(dest), page, nil
}

// UpdateFields applies column-keyed fields through the mapped path and
// reports how many rows matched
func (b *Base) UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	defer prometheus.TrackDBOperation(b.desc.Entity + "_update")(time.Now())

	res := b.db.WithContext(ctx).Model(b.desc.New()).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SoftDelete marks a record deleted, flipping its status to inactive first
// when the entity carries one. Never a physical delete.
func (b *Base) SoftDelete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation(b.desc.Entity + "_delete")(time.Now())

	if b.desc.HasStatus {
		if err := b.db.WithContext(ctx).Model(b.desc.New()).
			Where("id = ?", id).
			Update("status", model.StatusInactive).Error; err != nil {
			return err
		}
	}
	res := b.db.WithContext(ctx).Where("id = ?", id).Delete(b.desc.New())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &catalog.NotFoundError{Entity: b.desc.Entity, ID: id}
	}
	return nil
}

// HasLiveNameOrSlug reports whether a live record collides on name
// (case-insensitive) or slug
func (b *Base) HasLiveNameOrSlug(ctx context.Context, name, slug, excludeID string) (bool, error) {
	query := b.db.WithContext(ctx).Model(b.desc.New()).
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

// Query helpers shared with the product repository

func applyFilters(query *gorm.DB, filters map[string]any) *gorm.DB {
	for column, v := range filters {
		switch column {
		case "includeDeleted":
			query = query.Unscoped()
		case "name":
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(model.AsString(v))+"%")
		default:
			query = query.Where(column+" = ?", v)
		}
	}
	return query
}

func applySort(query *gorm.DB, sort string) *gorm.DB {
	if sort == "" {
		sort = "created_at desc"
	}
	return query.Order(sort)
}

func applySelect(query *gorm.DB, fields []string) *gorm.DB {
	if len(fields) == 0 {
		return query
	}
	columns := fields
	hasID := false
	for _, f := range fields {
		if f == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		columns = append([]string{"id"}, fields...)
	}
	return query.Select(columns)
}

// applyPaging applies offset/limit and returns the page bookkeeping.
// Page <= 0 means the full unpaginated result set.
func applyPaging(query **gorm.DB, page, limit int, total int64) catalog.Pagination {
	if page <= 0 {
		return catalog.Pagination{CurrentPage: 1, TotalPages: 1, TotalDocuments: total}
	}
	if limit <= 0 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	*query = (*query).Offset((page - 1) * limit).Limit(limit)
	return catalog.Pagination{CurrentPage: page, TotalPages: totalPages, TotalDocuments: total}
}
