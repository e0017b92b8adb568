package catalog

import (
	"context"
	"strings"

	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"go.uber.org/zap"
)

// ProductService is the product data engine's caller-facing surface. Every
// operation is parameterized by the tenant-scoped store it was built with;
// engine errors resolve into the uniform Result envelope, only unexpected
// faults come back as errors.
type ProductService struct {
	store ProductStore
	refs  RefLookup
	log   *zap.Logger
}

// NewProductService builds a product service over a tenant-scoped store
func NewProductService(store ProductStore, refs RefLookup, log *zap.Logger) *ProductService {
	return &ProductService{store: store, refs: refs, log: log}
}

// Payload keys the mapped update path may touch, with their storage columns.
// The designated nested-list field attributeSet is deliberately absent: it
// only ever reaches storage through the raw path on update.
var productColumns = map[string]string{
	"name":                "name",
	"slug":                "slug",
	"description":         "description",
	"price":               "price",
	"stock":               "stock",
	"category":            "category_id",
	"subcategory":         "subcategory_id",
	"brand":               "brand_id",
	"thumbnail":           "thumbnail",
	"images":              "images",
	"descriptionImages":   "description_images",
	"benefits":            "benefits",
	"precautions":         "precautions",
	"ingredients":         "ingredients",
	"howToUseSteps":       "how_to_use_steps",
	"highlights":          "highlights",
	"frequentlyPurchased": "frequently_purchased",
	"isTopRated":          "is_top_rated",
}

// Create normalizes, validates and inserts a new product. The duplicate
// check and the insert are separate storage operations; a storage-level
// uniqueness constraint is the backstop for the race between them.
func (s *ProductService) Create(ctx context.Context, payload map[string]any) (Result, error) {
	doc := NormalizeProduct(payload)

	name := model.AsString(doc["name"])
	if name == "" {
		return failure(&ValidationError{Field: "name", Reason: "is required"}), nil
	}
	if _, present := refValue(doc, "category"); !present {
		return failure(&ValidationError{Field: "category", Reason: "is required"}), nil
	}

	if err := ValidateReferences(ctx, doc, s.refs); err != nil {
		if _, ok := err.(*ValidationError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	slug := model.AsString(doc["slug"])
	if slug == "" {
		slug = Slugify(name)
	}
	doc["slug"] = slug

	dup, err := s.store.HasLiveNameOrSlug(ctx, name, slug, "")
	if err != nil {
		return Result{}, err
	}
	if dup {
		return failure(&DuplicateError{Entity: "product", Name: name, Slug: slug}), nil
	}

	rec := model.ProductFromDocument(doc)
	if err := s.store.Insert(ctx, rec); err != nil {
		return Result{}, err
	}

	prometheus.RecordEntityOperation("product", "create")
	s.log.Info("product created",
		zap.String("product_id", rec.ID),
		zap.String("name", rec.Name),
		zap.String("slug", rec.Slug))
	return success("product created", rec.Document()), nil
}

// GetByID returns a single product as a presentation-normalized document
func (s *ProductService) GetByID(ctx context.Context, id string, populate []string) (Result, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return failure(&ValidationError{Field: "id", Value: id, Reason: "invalid identifier"}), nil
	}

	rec, err := s.store.FindByID(ctx, canonical, populate)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	// Storage may still hold legacy shapes written before the repair rules
	// existed; the read side canonicalizes them the same way the write side does.
	doc := NormalizeProduct(rec.Document())
	return success("product retrieved", doc), nil
}

// GetAll lists products. Soft-deleted rows are excluded unless the filters
// explicitly ask for them; page <= 0 returns the full unpaginated set.
func (s *ProductService) GetAll(ctx context.Context, q ListQuery) (ListResult, error) {
	records, page, err := s.store.List(ctx, s.translateQuery(q))
	if err != nil {
		return ListResult{}, err
	}

	docs := make([]map[string]any, 0, len(records))
	for i := range records {
		docs = append(docs, records[i].Document())
	}
	return ListResult{
		Result:         docs,
		CurrentPage:    page.CurrentPage,
		TotalPages:     page.TotalPages,
		TotalDocuments: page.TotalDocuments,
	}, nil
}

// Update applies a product mutation. Updates that touch the attribute set go
// through the dual-path reconciler; everything else uses the mapped path only.
func (s *ProductService) Update(ctx context.Context, id string, payload map[string]any) (Result, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return failure(&ValidationError{Field: "id", Value: id, Reason: "invalid identifier"}), nil
	}

	doc := NormalizeProduct(payload)
	if err := ValidateReferences(ctx, doc, s.refs); err != nil {
		if _, ok := err.(*ValidationError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	if name := model.AsString(doc["name"]); name != "" && model.AsString(doc["slug"]) == "" {
		doc["slug"] = Slugify(name)
	}

	rowsAny, hasRows := doc["attributeSet"].([]any)
	fields := s.updateFields(doc)

	if !hasRows {
		if err := s.applyMapped(ctx, canonical, fields); err != nil {
			if _, ok := err.(*NotFoundError); ok {
				return failure(err), nil
			}
			return Result{}, err
		}
		rec, err := s.store.FindByID(ctx, canonical, nil)
		if err != nil {
			return Result{}, err
		}
		prometheus.RecordEntityOperation("product", "update")
		return success("product updated", rec.Document()), nil
	}

	// Dual-path update: prepare the rows, write the scalar fields through the
	// mapped path, then push the full rows through the raw path and reconcile
	// what storage actually kept.
	prepared := PrepareRows(rowsAny)

	if err := s.applyMapped(ctx, canonical, fields); err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	// The mapped and raw writes must address the identical row
	storageID, err := s.store.ResolveID(ctx, canonical)
	if err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return failure(err), nil
		}
		return Result{}, err
	}

	var warning *PersistenceError
	if err := s.store.WriteAttributeRowsRaw(ctx, storageID, prepared); err != nil {
		// Best effort: the mapped update stands, nothing is rolled back
		warning = &PersistenceError{Entity: "product", ID: storageID, Err: err}
		prometheus.RecordRawWriteFailure()
		s.log.Warn("raw attribute-set write failed",
			zap.String("product_id", storageID),
			zap.Error(err))
	}

	message := "product updated"
	if warning != nil {
		message = "product updated; " + warning.Error()
	}

	observed, err := s.store.ReadAttributeRowsRaw(ctx, storageID)
	if err != nil || len(observed) == 0 {
		if err != nil {
			s.log.Warn("raw attribute-set read failed",
				zap.String("product_id", storageID),
				zap.Error(err))
		}
		// Fall back to the mapped view unmodified
		rec, ferr := s.store.FindByID(ctx, storageID, nil)
		if ferr != nil {
			return Result{}, ferr
		}
		prometheus.RecordEntityOperation("product", "update")
		return success(message, rec.Document()), nil
	}

	merged := ReconcileRows(prepared, observed)

	rec, err := s.store.FindByID(ctx, storageID, nil)
	if err != nil {
		return Result{}, err
	}
	composite := rec.Document()
	composite["attributeSet"] = merged

	prometheus.RecordEntityOperation("product", "update")
	s.log.Info("product updated",
		zap.String("product_id", storageID),
		zap.Int("attribute_rows", len(merged)),
		zap.Bool("raw_write_ok", warning == nil))
	return success(message, composite), nil
}

// Delete soft-deletes a product; nothing is ever physically removed
func (s *ProductService) Delete(ctx context.Context, id string) (Result, error) {
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

	prometheus.RecordEntityOperation("product", "delete")
	s.log.Info("product deleted", zap.String("product_id", canonical))
	return success("product deleted", nil), nil
}

// applyMapped writes the mapped fields, or just verifies the target still
// exists when the payload carried nothing for the mapped path
func (s *ProductService) applyMapped(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := s.store.ResolveID(ctx, id)
		return err
	}
	affected, err := s.store.UpdateFields(ctx, id, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

// updateFields converts the mapped payload fields to column-keyed storage values
func (s *ProductService) updateFields(doc map[string]any) map[string]any {
	fields := make(map[string]any)
	for key, column := range productColumns {
		v, ok := doc[key]
		if !ok {
			continue
		}
		switch key {
		case "name", "slug", "description":
			fields[column] = model.AsString(v)
		case "price":
			fields[column] = model.AsFloat(v)
		case "stock":
			fields[column] = model.AsInt(v)
		case "category", "subcategory", "brand":
			if id, present := refValue(doc, key); present {
				fields[column] = model.AsString(id)
			}
		case "thumbnail":
			fields[column] = model.ImageDocFromAny(v)
		case "images", "descriptionImages":
			fields[column] = model.ImageListFromAny(v)
		case "benefits", "precautions", "ingredients", "howToUseSteps", "highlights":
			fields[column] = model.TextRowsFromAny(v)
		case "frequentlyPurchased":
			fields[column] = model.StringListFromAny(v)
		case "isTopRated":
			fields[column] = model.AsBool(v)
		}
	}
	return fields
}

// translateQuery maps payload-keyed filters, sort and selects onto columns
func (s *ProductService) translateQuery(q ListQuery) ListQuery {
	out := ListQuery{Page: q.Page, Limit: q.Limit, Populate: q.Populate}

	filters := make(map[string]any)
	for key, v := range q.Filters {
		switch key {
		case "includeDeleted", "deletedAt":
			filters["includeDeleted"] = true
		case "name":
			filters["name"] = model.AsString(v)
		case "isTopRated":
			filters["is_top_rated"] = model.AsBool(v)
		default:
			if column, ok := productColumns[key]; ok {
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
		if column, ok := productColumns[field]; ok {
			if dir != "desc" {
				dir = "asc"
			}
			out.Sort = column + " " + dir
		}
	}

	for _, key := range q.Select {
		if column, ok := productColumns[key]; ok {
			out.Select = append(out.Select, column)
		}
	}
	return out
}
