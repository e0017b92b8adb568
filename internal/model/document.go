package model

import (
	"fmt"
	"strconv"
)

// Conversions between storage records and canonical documents. Documents are
// the map[string]any shape the engine and its callers work with; records are
// the GORM-mapped rows. Conversion runs one way in each direction at this
// boundary and nowhere else.

// Document converts a product record into its canonical document
func (p *Product) Document() map[string]any {
	doc := map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"slug":                p.Slug,
		"description":         p.Description,
		"price":               p.Price,
		"stock":               p.Stock,
		"images":              imagesToAny(p.Images),
		"descriptionImages":   imagesToAny(p.DescriptionImages),
		"benefits":            textRowsToAny(p.Benefits),
		"precautions":         textRowsToAny(p.Precautions),
		"ingredients":         textRowsToAny(p.Ingredients),
		"howToUseSteps":       textRowsToAny(p.HowToUseSteps),
		"highlights":          textRowsToAny(p.Highlights),
		"attributeSet":        attributeRowsToAny(p.AttributeSet),
		"frequentlyPurchased": stringsToAny(p.FrequentlyPurchased),
		"isTopRated":          p.IsTopRated,
		"createdAt":           p.CreatedAt,
		"updatedAt":           p.UpdatedAt,
	}
	if p.Thumbnail != nil {
		doc["thumbnail"] = map[string]any{"url": p.Thumbnail.URL, "alt": p.Thumbnail.Alt}
	}
	if p.Category != nil {
		doc["category"] = p.Category.Document()
	} else if p.CategoryID != "" {
		doc["category"] = p.CategoryID
	}
	if p.Subcategory != nil {
		doc["subcategory"] = p.Subcategory.Document()
	} else if p.SubcategoryID != nil {
		doc["subcategory"] = *p.SubcategoryID
	}
	if p.Brand != nil {
		doc["brand"] = p.Brand.Document()
	} else if p.BrandID != nil {
		doc["brand"] = *p.BrandID
	}
	if p.DeletedAt.Valid {
		doc["deletedAt"] = p.DeletedAt.Time
	}
	return doc
}

// ProductFromDocument builds a product record from a canonical document
func ProductFromDocument(doc map[string]any) *Product {
	p := &Product{
		Name:                AsString(doc["name"]),
		Slug:                AsString(doc["slug"]),
		Description:         AsString(doc["description"]),
		Price:               AsFloat(doc["price"]),
		Stock:               AsInt(doc["stock"]),
		CategoryID:          AsString(doc["category"]),
		Thumbnail:           ImageDocFromAny(doc["thumbnail"]),
		Images:              ImageListFromAny(doc["images"]),
		DescriptionImages:   ImageListFromAny(doc["descriptionImages"]),
		Benefits:            TextRowsFromAny(doc["benefits"]),
		Precautions:         TextRowsFromAny(doc["precautions"]),
		Ingredients:         TextRowsFromAny(doc["ingredients"]),
		HowToUseSteps:       TextRowsFromAny(doc["howToUseSteps"]),
		Highlights:          TextRowsFromAny(doc["highlights"]),
		AttributeSet:        AttributeRowsFromAny(doc["attributeSet"]),
		FrequentlyPurchased: StringListFromAny(doc["frequentlyPurchased"]),
		IsTopRated:          AsBool(doc["isTopRated"]),
	}
	if s := AsString(doc["subcategory"]); s != "" {
		p.SubcategoryID = &s
	}
	if s := AsString(doc["brand"]); s != "" {
		p.BrandID = &s
	}
	return p
}

// Document converts a category record into its canonical document
func (c *Category) Document() map[string]any {
	doc := map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"slug":      c.Slug,
		"status":    c.Status,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
	if c.Image != nil {
		doc["image"] = map[string]any{"url": c.Image.URL, "alt": c.Image.Alt}
	}
	if c.DeletedAt.Valid {
		doc["deletedAt"] = c.DeletedAt.Time
	}
	return doc
}

// Document converts a subcategory record into its canonical document
func (s *Subcategory) Document() map[string]any {
	doc := map[string]any{
		"id":        s.ID,
		"name":      s.Name,
		"slug":      s.Slug,
		"status":    s.Status,
		"category":  s.CategoryID,
		"createdAt": s.CreatedAt,
		"updatedAt": s.UpdatedAt,
	}
	if s.Image != nil {
		doc["image"] = map[string]any{"url": s.Image.URL, "alt": s.Image.Alt}
	}
	if s.DeletedAt.Valid {
		doc["deletedAt"] = s.DeletedAt.Time
	}
	return doc
}

// Document converts a brand record into its canonical document
func (b *Brand) Document() map[string]any {
	doc := map[string]any{
		"id":        b.ID,
		"name":      b.Name,
		"slug":      b.Slug,
		"createdAt": b.CreatedAt,
		"updatedAt": b.UpdatedAt,
	}
	if b.Logo != nil {
		doc["logo"] = map[string]any{"url": b.Logo.URL, "alt": b.Logo.Alt}
	}
	if b.DeletedAt.Valid {
		doc["deletedAt"] = b.DeletedAt.Time
	}
	return doc
}

// Document converts an attribute record into its canonical document
func (a *Attribute) Document() map[string]any {
	doc := map[string]any{
		"id":        a.ID,
		"name":      a.Name,
		"slug":      a.Slug,
		"status":    a.Status,
		"values":    stringsToAny(a.Values),
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
	if a.DeletedAt.Valid {
		doc["deletedAt"] = a.DeletedAt.Time
	}
	return doc
}

// CategoryFromDocument builds a category record from a canonical document
func CategoryFromDocument(doc map[string]any) *Category {
	return &Category{
		Name:   AsString(doc["name"]),
		Slug:   AsString(doc["slug"]),
		Status: statusOrActive(doc["status"]),
		Image:  ImageDocFromAny(doc["image"]),
	}
}

// SubcategoryFromDocument builds a subcategory record from a canonical document
func SubcategoryFromDocument(doc map[string]any) *Subcategory {
	return &Subcategory{
		Name:       AsString(doc["name"]),
		Slug:       AsString(doc["slug"]),
		Status:     statusOrActive(doc["status"]),
		CategoryID: AsString(doc["category"]),
		Image:      ImageDocFromAny(doc["image"]),
	}
}

// BrandFromDocument builds a brand record from a canonical document
func BrandFromDocument(doc map[string]any) *Brand {
	return &Brand{
		Name: AsString(doc["name"]),
		Slug: AsString(doc["slug"]),
		Logo: ImageDocFromAny(doc["logo"]),
	}
}

// AttributeFromDocument builds an attribute record from a canonical document
func AttributeFromDocument(doc map[string]any) *Attribute {
	return &Attribute{
		Name:   AsString(doc["name"]),
		Slug:   AsString(doc["slug"]),
		Status: statusOrActive(doc["status"]),
		Values: StringListFromAny(doc["values"]),
	}
}

func statusOrActive(v any) string {
	if s := AsString(v); s != "" {
		return s
	}
	return StatusActive
}

// Coercion helpers shared by the document converters

// AsString coerces a document value to a string, empty when absent
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// AsFloat coerces a document value to a float64, zero when absent
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}

// AsInt coerces a document value to an int, zero when absent
func AsInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return 0
}

// AsBool coerces a document value to a bool, false when absent
func AsBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// ImageDocFromAny coerces a document value to an image subdocument
func ImageDocFromAny(v any) *ImageDoc {
	switch img := v.(type) {
	case nil:
		return nil
	case string:
		return &ImageDoc{URL: img}
	case map[string]any:
		return &ImageDoc{URL: stringAt(img, "url"), Alt: stringAt(img, "alt")}
	}
	return nil
}

// ImageListFromAny coerces a document value to an image list
func ImageListFromAny(v any) ImageList {
	items, ok := v.([]any)
	if !ok {
		return ImageList{}
	}
	out := make(ImageList, 0, len(items))
	for _, item := range items {
		out = append(out, imageFromRaw(item))
	}
	return out
}

// TextRowsFromAny coerces a document value to free-text rows
func TextRowsFromAny(v any) TextRows {
	items, ok := v.([]any)
	if !ok {
		return TextRows{}
	}
	out := make(TextRows, 0, len(items))
	for _, item := range items {
		switch row := item.(type) {
		case string:
			out = append(out, TextRow{Description: row})
		case map[string]any:
			out = append(out, TextRow{Title: stringAt(row, "title"), Description: stringAt(row, "description")})
		default:
			out = append(out, TextRow{Description: fmt.Sprint(row)})
		}
	}
	return out
}

// AttributeRowsFromAny coerces a document value to mapped attribute rows.
// Sub-fields outside the mapped shape are dropped here; the raw write path
// is responsible for keeping them.
func AttributeRowsFromAny(v any) AttributeRows {
	items, ok := v.([]any)
	if !ok {
		return AttributeRows{}
	}
	out := make(AttributeRows, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			out = append(out, AttributeRow{Value: AsString(item), Values: []string{}})
			continue
		}
		out = append(out, AttributeRow{
			AttributeID: AsString(row["attributeId"]),
			Value:       AsString(row["value"]),
			Unit:        AsString(row["unit"]),
			Values:      StringListFromAny(row["values"]),
		})
	}
	return out
}

// StringListFromAny coerces a document value to a string list
func StringListFromAny(v any) StringList {
	switch items := v.(type) {
	case []any:
		out := make(StringList, 0, len(items))
		for _, item := range items {
			out = append(out, AsString(item))
		}
		return out
	case []string:
		return StringList(items)
	}
	return StringList{}
}

func imagesToAny(l ImageList) []any {
	out := make([]any, 0, len(l))
	for _, img := range l {
		out = append(out, map[string]any{"url": img.URL, "alt": img.Alt})
	}
	return out
}

func textRowsToAny(r TextRows) []any {
	out := make([]any, 0, len(r))
	for _, row := range r {
		m := map[string]any{"description": row.Description}
		if row.Title != "" {
			m["title"] = row.Title
		}
		out = append(out, m)
	}
	return out
}

func attributeRowsToAny(r AttributeRows) []any {
	out := make([]any, 0, len(r))
	for _, row := range r {
		values := make([]any, 0, len(row.Values))
		for _, v := range row.Values {
			values = append(values, v)
		}
		out = append(out, map[string]any{
			"attributeId": row.AttributeID,
			"value":       row.Value,
			"unit":        row.Unit,
			"values":      values,
		})
	}
	return out
}

func stringsToAny(l StringList) []any {
	out := make([]any, 0, len(l))
	for _, s := range l {
		out = append(out, s)
	}
	return out
}
