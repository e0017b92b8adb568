package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"go.uber.org/zap"
)

// EntityService is the shared CRUD engine for the taxonomy entities. One
// implementation serves category, subcategory, brand and attribute; the
// per-entity differences come in as strategy functions instead of subclassing.
type EntityService struct {
	entity    string
	store     EntityStore
	log       *zap.Logger
	columns   map[string]string
	normalize func(map[string]any) map[string]any
	validate  func(context.Context, map[string]any) error
}

// NewCategoryService builds the category engine
func NewCategoryService(store EntityStore, log *zap.Logger) *EntityService {
	return &EntityService{
		entity:    "category",
		store:     store,
		log:       log,
		columns:   taxonomyColumns("image"),
		normalize: normalizeTaxonomy("image"),
	}
}

// NewSubcategoryService builds the subcategory engine; its parent category
// reference is checked for liveness on create and update
func NewSubcategoryService(store EntityStore, refs RefLookup, log *zap.Logger) *EntityService {
	columns := taxonomyColumns("image")
	columns["category"] = "category_id"
	return &EntityService{
		entity:    "subcategory",
		store:     store,
		log:       log,
		columns:   columns,
		normalize: normalizeTaxonomy("image"),
		validate: func(ctx context.Context, doc map[string]any) error {
			v, present := refValue(doc, "category")
			if !present {
				return nil
			}
			id, err := CanonicalID(v)
			if err != nil {
				return &ValidationError{Field: "category", Value: v, Reason: "invalid identifier"}
			}
			live, err := refs.CategoryLive(ctx, id)
			if err != nil {
				return err
			}
			if !live {
				return &ValidationError{Field: "category", Value: v, Reason: "invalid"}
			}
			return nil
		},
	}
}

// NewBrandService builds the brand engine
func NewBrandService(store EntityStore, log *zap.Logger) *EntityService {
	return &EntityService{
		entity: "brand",
		store:  store,
		log:    log,
		// Brands carry no status column
		columns:   map[string]string{"name": "name", "slug": "slug", "logo": "logo"},
		normalize: normalizeTaxonomy("logo"),
	}
}

// NewAttributeService builds the attribute engine. Attribute values may
// arrive JSON-stringified the same way product list fields do.
func NewAttributeService(store EntityStore, log *zap.Logger) *EntityService {
	columns := taxonomyColumns("")
	columns["values"] = "values"
	return &EntityService{
		entity:  "attribute",
		store:   store,
		log:     log,
		columns: columns,
		normalize: func(doc map[string]any) map[string]any {
			if raw, ok := doc["values"].(string); ok {
				var parsed any
				if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
					doc["values"] = parsed
				} else {
					doc["values"] = []any{raw}
				}
			}
			return doc
		},
	}
}

// Create normalizes, validates, duplicate-guards and inserts a new entity
func (s *EntityService) Create(ctx context.Context, payload map[string]any) (Result, error) {
	doc := deepCopyValue(payload).(map[string]any)
	if s.normalize != nil {
		doc = s.normalize(doc)
	}

	name := model.AsString(doc["name"])
	if name == "" {
		return failure(&ValidationError{Field: "name", Reason: "is required"}), nil
	}

	if s.validate != nil {
		if err := s.validate(ctx, doc); err != nil {
			if _, ok := err.(*ValidationError); ok {
				return failure(err), nil
			}
			return Result{}, err
		}
	}

	slug := model.AsString(doc["slug"])
	if slug == "" {
		slug = Slugify(name)
	}
	doc["slug"] = slug

	// Live entities only: a soft-deleted entity frees its name and slug
	dup, err := s.store.HasLiveNameOrSlug(ctx, name, slug, "")
	if err != nil {
		return Result{}, err
	}
	if dup {
		return failure(&DuplicateError{Entity: s.entity, Name: name, Slug: slug}), nil
	}

	created, err := s.store.Insert(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	prometheus.RecordEntityOperation(s.entity, "create")
	s.log.Info("entity created",
		zap.String("entity", s.entity),
		zap.String("name", name),
		zap.String("slug", slug))
	return success(s.entity+" created", created), nil
}

// GetByID returns a single entity document
func (s *EntityService) GetByID(ctx context.Context, id string) (Result, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return failure(&ValidationError{Field: "id", Value: id, Reason: "invalid identifier"}), nil
	}

	doc, err := s.store.FindByID(ctx, canonical)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}
	return success(s.entity+" retrieved", doc), nil
}

// GetAll lists entities, excluding soft-deleted ones unless asked otherwise
func (s *EntityService) GetAll(ctx context.Context, q ListQuery) (ListResult, error) {
	docs, page, err := s.store.List(ctx, s.translateQuery(q))
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Result:         docs,
		CurrentPage:    page.CurrentPage,
		TotalPages:     page.TotalPages,
		TotalDocuments: page.TotalDocuments,
	}, nil
}

// Update applies a mapped-path mutation to an entity
func (s *EntityService) Update(ctx context.Context, id string, payload map[string]any) (Result, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return failure(&ValidationError{Field: "id", Value: id, Reason: "invalid identifier"}), nil
	}

	doc := deepCopyValue(payload).(map[string]any)
	if s.normalize != nil {
		doc = s.normalize(doc)
	}
	if s.validate != nil {
		if err := s.validate(ctx, doc); err != nil {
			if _, ok := err.(*ValidationError); ok {
				return failure(err), nil
			}
			return Result{}, err
		}
	}
	if name := model.AsString(doc["name"]); name != "" && model.AsString(doc["slug"]) == "" {
		doc["slug"] = Slugify(name)
	}

	fields := s.updateFields(doc)
	if len(fields) > 0 {
		affected, err := s.store.UpdateFields(ctx, canonical, fields)
		if err != nil {
			return Result{}, err
		}
		if affected == 0 {
			return failure(&NotFoundError{Entity: s.entity, ID: canonical}), nil
		}
	}

	updated, err := s.store.FindByID(ctx, canonical)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	prometheus.RecordEntityOperation(s.entity, "update")
	return success(s.entity+" updated", updated), nil
}

// Delete soft-deletes an entity; entities with a status also flip to inactive
func (s *EntityService) Delete(ctx context.Context, id string) (Result, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return failure(&ValidationError{Field: "id", Value: id, Reason: "invalid identifier"}), nil
	}

	if err := s.store.SoftDelete(ctx, canonical); err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	prometheus.RecordEntityOperation(s.entity, "delete")
	s.log.Info("entity deleted",
		zap.String("entity", s.entity),
		zap.String("id", canonical))
	return success(s.entity+" deleted", nil), nil
}

func (s *EntityService) updateFields(doc map[string]any) map[string]any {
	fields := make(map[string]any)
	for key, column := range s.columns {
		v, ok := doc[key]
		if !ok {
			continue
		}
		switch key {
		case "image", "logo":
			fields[column] = model.ImageDocFromAny(normalizeImageValue(v))
		case "values":
			fields[column] = model.StringListFromAny(v)
		case "category":
			if id, present := refValue(doc, key); present {
				fields[column] = model.AsString(id)
			}
		default:
			fields[column] = model.AsString(v)
		}
	}
	return fields
}

func (s *EntityService) translateQuery(q ListQuery) ListQuery {
	out := ListQuery{Page: q.Page, Limit: q.Limit}

	filters := make(map[string]any)
	for key, v := range q.Filters {
		switch key {
		case "includeDeleted", "deletedAt":
			filters["includeDeleted"] = true
		case "name":
			filters["name"] = model.AsString(v)
		default:
			if column, ok := s.columns[key]; ok {
				filters[column] = model.AsString(v)
			}
		}
	}
	out.Filters = filters

	if q.Sort != "" {
		field, dir := q.Sort, "asc"
		if i := strings.IndexByte(q.Sort, ':'); i >= 0 {
			field, dir = q.Sort[:i], q.Sort[i+1:]
		}
		if column, ok := s.columns[field]; ok {
			if dir != "desc" {
				dir = "asc"
			}
			out.Sort = column + " " + dir
		}
	}

	for _, key := range q.Select {
		if column, ok := s.columns[key]; ok {
			out.Select = append(out.Select, column)
		}
	}
	return out
}

func taxonomyColumns(imageKey string) map[string]string {
	columns := map[string]string{
		"name":   "name",
		"slug":   "slug",
		"status": "status",
	}
	if imageKey != "" {
		columns[imageKey] = imageKey
	}
	return columns
}

func normalizeTaxonomy(imageKey string) func(map[string]any) map[string]any {
	return func(doc map[string]any) map[string]any {
		if v, ok := doc[imageKey]; ok && v != nil {
			doc[imageKey] = normalizeImageValue(v)
		}
		return doc
	}
}
