package repository

import "catalog-service/internal/model"

// Descriptor parameterizes the generic CRUD base for one entity. The
// per-entity record/document conversions come in as strategy functions, so
// one base serves every taxonomy entity without subclassing.
type Descriptor struct {
	Entity    string
	Table     string
	HasStatus bool
	New       func() any
	FromDoc   func(map[string]any) any
	ToDoc     func(any) map[string]any
	NewSlice  func() any
	SliceDocs func(any) []map[string]any
}

// CategoryDescriptor describes the category entity
func CategoryDescriptor() Descriptor {
	return Descriptor{
		Entity:    "category",
		Table:     "categories",
		HasStatus: true,
		New:       func() any { return &model.Category{} },
		FromDoc:   func(doc map[string]any) any { return model.CategoryFromDocument(doc) },
		ToDoc:     func(rec any) map[string]any { return rec.(*model.Category).Document() },
		NewSlice:  func() any { return &[]model.Category{} },
		SliceDocs: func(s any) []map[string]any {
			records := *s.(*[]model.Category)
			docs := make([]map[string]any, 0, len(records))
			for i := range records {
				docs = append(docs, records[i].Document())
			}
			return docs
		},
	}
}

// SubcategoryDescriptor describes the subcategory entity
func SubcategoryDescriptor() Descriptor {
	return Descriptor{
		Entity:    "subcategory",
		Table:     "subcategories",
		HasStatus: true,
		New:       func() any { return &model.Subcategory{} },
		FromDoc:   func(doc map[string]any) any { return model.SubcategoryFromDocument(doc) },
		ToDoc:     func(rec any) map[string]any { return rec.(*model.Subcategory).Document() },
		NewSlice:  func() any { return &[]model.Subcategory{} },
		SliceDocs: func(s any) []map[string]any {
			records := *s.(*[]model.Subcategory)
			docs := make([]map[string]any, 0, len(records))
			for i := range records {
				docs = append(docs, records[i].Document())
			}
			return docs
		},
	}
}

// BrandDescriptor describes the brand entity
func BrandDescriptor() Descriptor {
	return Descriptor{
		Entity:   "brand",
		Table:    "brands",
		New:      func() any { return &model.Brand{} },
		FromDoc:  func(doc map[string]any) any { return model.BrandFromDocument(doc) },
		ToDoc:    func(rec any) map[string]any { return rec.(*model.Brand).Document() },
		NewSlice: func() any { return &[]model.Brand{} },
		SliceDocs: func(s any) []map[string]any {
			records := *s.(*[]model.Brand)
			docs := make([]map[string]any, 0, len(records))
			for i := range records {
				docs = append(docs, records[i].Document())
			}
			return docs
		},
	}
}

// AttributeDescriptor describes the attribute entity
func AttributeDescriptor() Descriptor {
	return Descriptor{
		Entity:    "attribute",
		Table:     "attributes",
		HasStatus: true,
		New:       func() any { return &model.Attribute{} },
		FromDoc:   func(doc map[string]any) any { return model.AttributeFromDocument(doc) },
		ToDoc:     func(rec any) map[string]any { return rec.(*model.Attribute).Document() },
		NewSlice:  func() any { return &[]model.Attribute{} },
		SliceDocs: func(s any) []map[string]any {
			records := *s.(*[]model.Attribute)
			docs := make([]map[string]any, 0, len(records))
			for i := range records {
				docs = append(docs, records[i].Document())
			}
			return docs
		},
	}
}
