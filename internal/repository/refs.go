package repository

import (
	"context"

	"catalog-service/internal/model"

	"gorm.io/gorm"
)

// Refs answers the validator's foreign-reference lookups against the
// tenant's storage. Liveness means status active (case-insensitive) and not
// soft-deleted; existence checks skip the status half.
type Refs struct {
	db *gorm.DB
}

// NewRefs builds reference lookups on a tenant connection
func NewRefs(db *gorm.DB) *Refs {
	return &Refs{db: db}
}

// CategoryLive reports whether a category exists, is active and not deleted
func (r *Refs) CategoryLive(ctx context.Context, id string) (bool, error) {
	return r.live(ctx, &model.Category{}, id)
}

// SubcategoryLive reports whether a subcategory exists, is active and not deleted
func (r *Refs) SubcategoryLive(ctx context.Context, id string) (bool, error) {
	return r.live(ctx, &model.Subcategory{}, id)
}

// BrandExists reports whether a brand exists. Existence-only semantics:
// soft-deleted brands still satisfy the reference.
func (r *Refs) BrandExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Brand{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// AttributeLive reports whether an attribute exists, is active and not deleted
func (r *Refs) AttributeLive(ctx context.Context, id string) (bool, error) {
	return r.live(ctx, &model.Attribute{}, id)
}

// ProductExists reports whether a product exists, live or not
func (r *Refs) ProductExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *Refs) live(ctx context.Context, entity any, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(entity).
		Where("id = ? AND LOWER(status) = ?", id, model.StatusActive).
		Count(&count).Error
	return count > 0, err
}
