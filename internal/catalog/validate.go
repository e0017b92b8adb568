package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RefLookup is the port the validator checks foreign references through.
// Every lookup runs against the same tenant-scoped storage as the write that
// follows; the check is point-in-time, not a continuously enforced key.
type RefLookup interface {
	CategoryLive(ctx context.Context, id string) (bool, error)
	SubcategoryLive(ctx context.Context, id string) (bool, error)
	BrandExists(ctx context.Context, id string) (bool, error)
	AttributeLive(ctx context.Context, id string) (bool, error)
	ProductExists(ctx context.Context, id string) (bool, error)
}

// CanonicalID canonicalizes a string identifier to the storage's native
// identifier form. Malformed identifiers fail before any lookup runs.
func CanonicalID(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ValidateReferences checks every foreign reference on a normalized product
// document. The first failure short-circuits the remaining checks and names
// the offending field and value. On success there are no side effects.
func ValidateReferences(ctx context.Context, doc map[string]any, refs RefLookup) error {
	if v, present := refValue(doc, "category"); present {
		id, err := CanonicalID(v)
		if err != nil {
			return &ValidationError{Field: "category", Value: v, Reason: "invalid identifier"}
		}
		live, err := refs.CategoryLive(ctx, id)
		if err != nil {
			return fmt.Errorf("category lookup: %w", err)
		}
		if !live {
			return &ValidationError{Field: "category", Value: v, Reason: "invalid"}
		}
	}

	if v, present := refValue(doc, "subcategory"); present {
		id, err := CanonicalID(v)
		if err != nil {
			return &ValidationError{Field: "subcategory", Value: v, Reason: "invalid identifier"}
		}
		live, err := refs.SubcategoryLive(ctx, id)
		if err != nil {
			return fmt.Errorf("subcategory lookup: %w", err)
		}
		if !live {
			return &ValidationError{Field: "subcategory", Value: v, Reason: "invalid"}
		}
	}

	// Brand uses existence-only semantics: no status or deletion check.
	if v, present := refValue(doc, "brand"); present {
		id, err := CanonicalID(v)
		if err != nil {
			return &ValidationError{Field: "brand", Value: v, Reason: "invalid identifier"}
		}
		exists, err := refs.BrandExists(ctx, id)
		if err != nil {
			return fmt.Errorf("brand lookup: %w", err)
		}
		if !exists {
			return &ValidationError{Field: "brand", Value: v, Reason: "invalid"}
		}
	}

	if rows, ok := doc["attributeSet"].([]any); ok {
		for i, item := range rows {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			v, present := refValue(row, "attributeId")
			if !present {
				continue
			}
			field := fmt.Sprintf("attributeSet[%d].attributeId", i)
			id, err := CanonicalID(v)
			if err != nil {
				return &ValidationError{Field: field, Value: v, Reason: "invalid identifier"}
			}
			live, err := refs.AttributeLive(ctx, id)
			if err != nil {
				return fmt.Errorf("attribute lookup: %w", err)
			}
			if !live {
				return &ValidationError{Field: field, Value: v, Reason: "invalid"}
			}
		}
	}

	// Intentionally permissive: existence only, no liveness filter.
	if ids, ok := doc["frequentlyPurchased"].([]any); ok {
		for i, item := range ids {
			field := fmt.Sprintf("frequentlyPurchased[%d]", i)
			id, err := CanonicalID(item)
			if err != nil {
				return &ValidationError{Field: field, Value: item, Reason: "invalid identifier"}
			}
			exists, err := refs.ProductExists(ctx, id)
			if err != nil {
				return fmt.Errorf("product lookup: %w", err)
			}
			if !exists {
				return &ValidationError{Field: field, Value: item, Reason: "invalid"}
			}
		}
	}

	return nil
}

// refValue reports whether a reference field is meaningfully present
func refValue(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, false
	}
	// Populated documents carry the id under "id"
	if sub, ok := v.(map[string]any); ok {
		if id, ok := sub["id"]; ok {
			return id, true
		}
		return nil, false
	}
	return v, true
}
