package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The normalization layer repairs heterogeneous historical payload encodings
// into one canonical shape. It is best-effort by contract: it never rejects
// input, that is the validator's job. Every rule is independently idempotent,
// so running a payload through twice yields the same document as once.

// List fields that may arrive JSON-stringified
var stringifiedListFields = []string{
	"howToUseSteps", "ingredients", "benefits", "precautions",
	"attributeSet", "frequentlyPurchased", "highlights",
}

// Fields whose items are free text; a failed parse wraps the raw string as a
// single {description} row instead of a bare element
var freeTextListFields = map[string]bool{
	"howToUseSteps": true,
	"ingredients":   true,
	"benefits":      true,
	"precautions":   true,
	"highlights":    true,
}

// Fields whose free-text items go through the full three-form legacy repair
var legacyTextFields = []string{"benefits", "precautions"}

// A 24-character hexadecimal tail: a stray identifier from the legacy system
// accidentally concatenated onto free text. Stripping it is a guessed repair
// of historical data, not business logic.
var hexSuffixPattern = regexp.MustCompile(`[0-9a-fA-F]{24}$`)

// NormalizeProduct returns the canonical form of a raw product payload.
// The input map is not mutated.
func NormalizeProduct(payload map[string]any) map[string]any {
	doc := make(map[string]any, len(payload))
	for k, v := range payload {
		doc[k] = deepCopyValue(v)
	}

	// Stringified list fields are parsed as structured data
	for _, field := range stringifiedListFields {
		raw, ok := doc[field].(string)
		if !ok {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			doc[field] = parsed
			continue
		}
		if freeTextListFields[field] {
			doc[field] = []any{map[string]any{"description": raw}}
		} else {
			doc[field] = []any{raw}
		}
	}

	// Boolean flags arriving as literal strings
	if raw, ok := doc["isTopRated"].(string); ok {
		switch raw {
		case "true":
			doc["isTopRated"] = true
		case "false":
			doc["isTopRated"] = false
		}
	}

	// Image-like values
	for _, field := range []string{"images", "descriptionImages"} {
		items, ok := doc[field].([]any)
		if !ok {
			continue
		}
		for i, item := range items {
			items[i] = normalizeImageValue(item)
		}
	}
	if _, ok := doc["thumbnail"]; ok && doc["thumbnail"] != nil {
		doc["thumbnail"] = normalizeImageValue(doc["thumbnail"])
	}

	// Free-text items in the three legacy forms
	for _, field := range legacyTextFields {
		items, ok := doc[field].([]any)
		if !ok {
			continue
		}
		for i, item := range items {
			items[i] = normalizeTextItem(item)
		}
	}

	// Remaining free-text lists only need bare strings wrapped
	for _, field := range []string{"ingredients", "howToUseSteps", "highlights"} {
		items, ok := doc[field].([]any)
		if !ok {
			continue
		}
		for i, item := range items {
			if s, ok := item.(string); ok {
				items[i] = map[string]any{"description": s}
			}
		}
	}

	return doc
}

// normalizeImageValue wraps an image-like value into {url, alt}
func normalizeImageValue(v any) any {
	switch img := v.(type) {
	case string:
		return map[string]any{"url": img, "alt": ""}
	case map[string]any:
		if isCharIndexed(img) {
			return map[string]any{"url": joinCharIndexed(img), "alt": ""}
		}
		url, _ := img["url"].(string)
		alt, _ := img["alt"].(string)
		return map[string]any{"url": url, "alt": alt}
	default:
		return v
	}
}

// normalizeTextItem repairs a free-text list item into {description}
func normalizeTextItem(v any) any {
	switch item := v.(type) {
	case map[string]any:
		if _, ok := item["description"]; ok {
			return item
		}
		if isCharIndexed(item) {
			return map[string]any{"description": joinCharIndexed(item)}
		}
		return map[string]any{"description": fmt.Sprint(v)}
	case string:
		if loc := hexSuffixPattern.FindStringIndex(item); loc != nil {
			return map[string]any{"description": strings.TrimSpace(item[:loc[0]])}
		}
		return map[string]any{"description": item}
	default:
		return map[string]any{"description": fmt.Sprint(v)}
	}
}

// isCharIndexed reports whether a map is a character-indexed object: every
// key a decimal index, every value a string fragment
func isCharIndexed(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k, v := range m {
		if _, err := strconv.Atoi(k); err != nil {
			return false
		}
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

// joinCharIndexed reassembles a character-indexed object in numeric key order
func joinCharIndexed(m map[string]any) string {
	keys := make([]int, 0, len(m))
	for k := range m {
		n, _ := strconv.Atoi(k)
		keys = append(keys, n)
	}
	sort.Ints(keys)
	var b strings.Builder
	for _, k := range keys {
		s, _ := m[strconv.Itoa(k)].(string)
		b.WriteString(s)
	}
	return b.String()
}

// deepCopyValue copies nested maps and slices so normalization never mutates
// the caller's payload
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
