package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProductStore keeps products in memory and mimics the two storage paths:
// the mapped fields land on the record, the raw rows in a side table.
type fakeProductStore struct {
	products map[string]*model.Product
	deleted  map[string]bool
	rawRows  map[string][]map[string]any

	rawWriteErr error
	rawReadErr  error
	rawWrites   int
	lastFields  map[string]any
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		products: make(map[string]*model.Product),
		deleted:  make(map[string]bool),
		rawRows:  make(map[string][]map[string]any),
	}
}

func (f *fakeProductStore) Insert(_ context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id string, _ []string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok || f.deleted[id] {
		return nil, &NotFoundError{Entity: "product", ID: id}
	}
	return p, nil
}

func (f *fakeProductStore) List(_ context.Context, q ListQuery) ([]model.Product, Pagination, error) {
	var out []model.Product
	for id, p := range f.products {
		if f.deleted[id] && q.Filters["includeDeleted"] != true {
			continue
		}
		out = append(out, *p)
	}
	return out, Pagination{CurrentPage: 1, TotalPages: 1, TotalDocuments: int64(len(out))}, nil
}

func (f *fakeProductStore) UpdateFields(_ context.Context, id string, fields map[string]any) (int64, error) {
	p, ok := f.products[id]
	if !ok || f.deleted[id] {
		return 0, nil
	}
	f.lastFields = fields
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["slug"].(string); ok {
		p.Slug = v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	return 1, nil
}

func (f *fakeProductStore) SoftDelete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok || f.deleted[id] {
		return &NotFoundError{Entity: "product", ID: id}
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeProductStore) HasLiveNameOrSlug(_ context.Context, name, slug, excludeID string) (bool, error) {
	for id, p := range f.products {
		if id == excludeID || f.deleted[id] {
			continue
		}
		if strings.EqualFold(p.Name, name) || p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductStore) ResolveID(_ context.Context, id string) (string, error) {
	if _, ok := f.products[id]; !ok || f.deleted[id] {
		return "", &NotFoundError{Entity: "product", ID: id}
	}
	return id, nil
}

func (f *fakeProductStore) WriteAttributeRowsRaw(_ context.Context, id string, rows []map[string]any) error {
	if f.rawWriteErr != nil {
		return f.rawWriteErr
	}
	f.rawWrites++
	f.rawRows[id] = rows
	return nil
}

func (f *fakeProductStore) ReadAttributeRowsRaw(_ context.Context, id string) ([]map[string]any, error) {
	if f.rawReadErr != nil {
		return nil, f.rawReadErr
	}
	return f.rawRows[id], nil
}

func (f *fakeProductStore) seed(name, slug string) *model.Product {
	p := &model.Product{ID: uuid.NewString(), Name: name, Slug: slug, CategoryID: catID}
	f.products[p.ID] = p
	return p
}

func newProductService(store *fakeProductStore) *ProductService {
	return NewProductService(store, allRefs(), zap.NewNop())
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newFakeProductStore()
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":     "Face Cream",
			"category": catID,
			"price":    12.5,
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		require.Len(t, store.products, 1)
		for _, p := range store.products {
			assert.Equal(t, "Face Cream", p.Name)
			assert.Equal(t, "face-cream", p.Slug)
		}
	})

	t.Run("NameRequired", func(t *testing.T) {
		svc := newProductService(newFakeProductStore())

		res, err := svc.Create(ctx, map[string]any{"category": catID})

		require.NoError(t, err)
		assert.False(t, res.Success)
		var verr *ValidationError
		require.ErrorAs(t, res.Err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("CategoryRequired", func(t *testing.T) {
		svc := newProductService(newFakeProductStore())

		res, err := svc.Create(ctx, map[string]any{"name": "Face Cream"})

		require.NoError(t, err)
		assert.False(t, res.Success)
		var verr *ValidationError
		require.ErrorAs(t, res.Err, &verr)
		assert.Equal(t, "category", verr.Field)
	})

	t.Run("DuplicateNameCaseInsensitive", func(t *testing.T) {
		store := newFakeProductStore()
		store.seed("Face Cream", "some-other-slug")
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":     "FACE CREAM",
			"category": catID,
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		var derr *DuplicateError
		require.ErrorAs(t, res.Err, &derr)
		assert.Len(t, store.products, 1)
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		store := newFakeProductStore()
		store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":     "Facial Cream",
			"slug":     "face-cream",
			"category": catID,
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		var derr *DuplicateError
		require.ErrorAs(t, res.Err, &derr)
	})

	t.Run("SoftDeletedFreesName", func(t *testing.T) {
		store := newFakeProductStore()
		old := store.seed("Face Cream", "face-cream")
		store.deleted[old.ID] = true
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":     "Face Cream",
			"category": catID,
		})

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Len(t, store.products, 2)
	})

	t.Run("InvalidReference", func(t *testing.T) {
		store := newFakeProductStore()
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":     "Face Cream",
			"category": subID,
		})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Empty(t, store.products)
	})

	t.Run("NormalizesBeforeInsert", func(t *testing.T) {
		store := newFakeProductStore()
		svc := newProductService(store)

		res, err := svc.Create(ctx, map[string]any{
			"name":       "Serum",
			"category":   catID,
			"isTopRated": "true",
			"benefits":   []any{"Hydrates skin507f1f77bcf86cd799439011"},
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		for _, p := range store.products {
			assert.True(t, p.IsTopRated)
			require.Len(t, p.Benefits, 1)
			assert.Equal(t, "Hydrates skin", p.Benefits[0].Description)
		}
	})
}

func TestProductServiceGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidID", func(t *testing.T) {
		svc := newProductService(newFakeProductStore())

		res, err := svc.GetByID(ctx, "nope", nil)

		require.NoError(t, err)
		assert.False(t, res.Success)
		var verr *ValidationError
		assert.ErrorAs(t, res.Err, &verr)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := newProductService(newFakeProductStore())

		res, err := svc.GetByID(ctx, uuid.NewString(), nil)

		require.NoError(t, err)
		assert.False(t, res.Success)
		var nferr *NotFoundError
		assert.ErrorAs(t, res.Err, &nferr)
	})

	t.Run("Found", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.GetByID(ctx, p.ID, nil)

		require.NoError(t, err)
		require.True(t, res.Success)
		doc, ok := res.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, p.ID, doc["id"])
		assert.Equal(t, "Face Cream", doc["name"])
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletedBecomesInvisible", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.Delete(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, res.Success)

		got, err := svc.GetByID(ctx, p.ID, nil)
		require.NoError(t, err)
		assert.False(t, got.Success)
		var nferr *NotFoundError
		assert.ErrorAs(t, got.Err, &nferr)
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.Delete(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, res.Success)

		res, err = svc.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, res.Success)
		var nferr *NotFoundError
		assert.ErrorAs(t, res.Err, &nferr)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("MappedOnly", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.Update(ctx, p.ID, map[string]any{"name": "Night Cream"})

		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, "Night Cream", p.Name)
		assert.Equal(t, "night-cream", p.Slug)
		assert.Zero(t, store.rawWrites)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := newProductService(newFakeProductStore())

		res, err := svc.Update(ctx, uuid.NewString(), map[string]any{"name": "Night Cream"})

		require.NoError(t, err)
		assert.False(t, res.Success)
		var nferr *NotFoundError
		assert.ErrorAs(t, res.Err, &nferr)
	})

	t.Run("DualPathKeepsUnknownSubFields", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		res, err := svc.Update(ctx, p.ID, map[string]any{
			"attributeSet": []any{map[string]any{
				"attributeId":  attrID,
				"value":        "50",
				"unit":         "ml",
				"displayOrder": 3,
				"default":      true,
			}},
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, 1, store.rawWrites)

		doc, ok := res.Data.(map[string]any)
		require.True(t, ok)
		rows, ok := doc["attributeSet"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, rows, 1)
		assert.Equal(t, attrID, rows[0]["attributeId"])
		assert.Equal(t, "ml", rows[0]["unit"])
		assert.Equal(t, 3, rows[0]["displayOrder"])
		_, present := rows[0]["default"]
		assert.False(t, present)
	})

	t.Run("ReconcilesNullsFromPrepared", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		svc := newProductService(store)

		// the raw view comes back with a sub-field nulled out
		store.rawRows[p.ID] = []map[string]any{
			{"attributeId": attrID, "value": "50", "unit": nil},
		}
		store.rawWriteErr = errors.New("jsonb cast failed")

		res, err := svc.Update(ctx, p.ID, map[string]any{
			"attributeSet": []any{map[string]any{
				"attributeId": attrID,
				"value":       "50",
				"unit":        "ml",
			}},
		})

		require.NoError(t, err)
		require.True(t, res.Success)

		doc := res.Data.(map[string]any)
		rows := doc["attributeSet"].([]map[string]any)
		require.Len(t, rows, 1)
		assert.Equal(t, "ml", rows[0]["unit"])
	})

	t.Run("RawWriteFailureIsAWarning", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		store.rawWriteErr = errors.New("jsonb cast failed")
		svc := newProductService(store)

		res, err := svc.Update(ctx, p.ID, map[string]any{
			"name": "Night Cream",
			"attributeSet": []any{map[string]any{
				"attributeId": attrID,
				"value":       "50",
			}},
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, "Night Cream", p.Name)
		assert.Contains(t, res.Message, "product updated;")
		assert.Contains(t, res.Message, "raw write")
	})

	t.Run("RawReadFailureFallsBackToMappedView", func(t *testing.T) {
		store := newFakeProductStore()
		p := store.seed("Face Cream", "face-cream")
		store.rawReadErr = errors.New("scan failed")
		svc := newProductService(store)

		res, err := svc.Update(ctx, p.ID, map[string]any{
			"attributeSet": []any{map[string]any{
				"attributeId": attrID,
				"value":       "50",
			}},
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		doc := res.Data.(map[string]any)
		assert.Equal(t, p.ID, doc["id"])
	})
}

func TestProductServiceGetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("ExcludesDeleted", func(t *testing.T) {
		store := newFakeProductStore()
		store.seed("Face Cream", "face-cream")
		gone := store.seed("Old Cream", "old-cream")
		store.deleted[gone.ID] = true
		svc := newProductService(store)

		res, err := svc.GetAll(ctx, ListQuery{})

		require.NoError(t, err)
		assert.Len(t, res.Result, 1)
		assert.EqualValues(t, 1, res.TotalDocuments)
	})

	t.Run("IncludeDeleted", func(t *testing.T) {
		store := newFakeProductStore()
		store.seed("Face Cream", "face-cream")
		gone := store.seed("Old Cream", "old-cream")
		store.deleted[gone.ID] = true
		svc := newProductService(store)

		res, err := svc.GetAll(ctx, ListQuery{
			Filters: map[string]any{"includeDeleted": "true"},
		})

		require.NoError(t, err)
		assert.Len(t, res.Result, 2)
	})
}

// fakeEntityStore keeps taxonomy documents in memory
type fakeEntityStore struct {
	docs    map[string]map[string]any
	deleted map[string]bool
}

func newFakeEntityStore() *fakeEntityStore {
	return &fakeEntityStore{
		docs:    make(map[string]map[string]any),
		deleted: make(map[string]bool),
	}
}

func (f *fakeEntityStore) Insert(_ context.Context, doc map[string]any) (map[string]any, error) {
	id := uuid.NewString()
	stored := map[string]any{"id": id}
	for k, v := range doc {
		stored[k] = v
	}
	f.docs[id] = stored
	return stored, nil
}

func (f *fakeEntityStore) FindByID(_ context.Context, id string) (map[string]any, error) {
	doc, ok := f.docs[id]
	if !ok || f.deleted[id] {
		return nil, &NotFoundError{Entity: "entity", ID: id}
	}
	return doc, nil
}

func (f *fakeEntityStore) List(_ context.Context, q ListQuery) ([]map[string]any, Pagination, error) {
	var out []map[string]any
	for id, doc := range f.docs {
		if f.deleted[id] && q.Filters["includeDeleted"] != true {
			continue
		}
		out = append(out, doc)
	}
	return out, Pagination{CurrentPage: 1, TotalPages: 1, TotalDocuments: int64(len(out))}, nil
}

func (f *fakeEntityStore) UpdateFields(_ context.Context, id string, fields map[string]any) (int64, error) {
	doc, ok := f.docs[id]
	if !ok || f.deleted[id] {
		return 0, nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	return 1, nil
}

func (f *fakeEntityStore) SoftDelete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok || f.deleted[id] {
		return &NotFoundError{Entity: "entity", ID: id}
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeEntityStore) HasLiveNameOrSlug(_ context.Context, name, slug, excludeID string) (bool, error) {
	for id, doc := range f.docs {
		if id == excludeID || f.deleted[id] {
			continue
		}
		if strings.EqualFold(model.AsString(doc["name"]), name) || model.AsString(doc["slug"]) == slug {
			return true, nil
		}
	}
	return false, nil
}

func TestEntityService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateDerivesSlug", func(t *testing.T) {
		store := newFakeEntityStore()
		svc := NewCategoryService(store, zap.NewNop())

		res, err := svc.Create(ctx, map[string]any{"name": "Hair Care"})

		require.NoError(t, err)
		require.True(t, res.Success)
		doc := res.Data.(map[string]any)
		assert.Equal(t, "hair-care", doc["slug"])
	})

	t.Run("DuplicateGuard", func(t *testing.T) {
		store := newFakeEntityStore()
		svc := NewCategoryService(store, zap.NewNop())

		res, err := svc.Create(ctx, map[string]any{"name": "Hair Care"})
		require.NoError(t, err)
		require.True(t, res.Success)

		res, err = svc.Create(ctx, map[string]any{"name": "HAIR CARE"})
		require.NoError(t, err)
		assert.False(t, res.Success)
		var derr *DuplicateError
		assert.ErrorAs(t, res.Err, &derr)
	})

	t.Run("SubcategoryNeedsLiveParent", func(t *testing.T) {
		store := newFakeEntityStore()
		svc := NewSubcategoryService(store, allRefs(), zap.NewNop())

		res, err := svc.Create(ctx, map[string]any{
			"name":     "Shampoo",
			"category": subID,
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		var verr *ValidationError
		require.ErrorAs(t, res.Err, &verr)
		assert.Equal(t, "category", verr.Field)

		res, err = svc.Create(ctx, map[string]any{
			"name":     "Shampoo",
			"category": catID,
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("AttributeStringifiedValues", func(t *testing.T) {
		store := newFakeEntityStore()
		svc := NewAttributeService(store, zap.NewNop())

		res, err := svc.Create(ctx, map[string]any{
			"name":   "Volume",
			"values": `["50ml","100ml"]`,
		})

		require.NoError(t, err)
		require.True(t, res.Success)
		doc := res.Data.(map[string]any)
		assert.Equal(t, []any{"50ml", "100ml"}, doc["values"])
	})

	t.Run("UpdateThenDelete", func(t *testing.T) {
		store := newFakeEntityStore()
		svc := NewBrandService(store, zap.NewNop())

		res, err := svc.Create(ctx, map[string]any{"name": "Glowlab"})
		require.NoError(t, err)
		require.True(t, res.Success)
		id := model.AsString(res.Data.(map[string]any)["id"])

		res, err = svc.Update(ctx, id, map[string]any{"name": "Glowlab Pro"})
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, "Glowlab Pro", store.docs[id]["name"])

		res, err = svc.Delete(ctx, id)
		require.NoError(t, err)
		require.True(t, res.Success)

		res, err = svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, res.Success)
	})
}
