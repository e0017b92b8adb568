package catalog

import "fmt"

// The dual-path update writes the attribute set twice: once through the
// mapped path (which only keeps declared sub-fields) and once through the raw
// path (which keeps everything). These pure functions prepare the rows before
// the writes and merge the two views afterwards; they touch no storage.

// Attribute-row sub-fields with a canonical type and an empty fallback
var canonicalRowStrings = []string{"attributeId", "value", "unit"}

// Bookkeeping keys that must never persist
const disallowedRowKey = "default"

// PrepareRows deep-copies the incoming attribute rows, drops disallowed
// bookkeeping keys and coerces every canonical sub-field so each row carries
// a uniform field set regardless of what the caller sent. Unknown sub-fields
// pass through untouched; persisting them is the raw path's whole purpose.
func PrepareRows(items []any) []map[string]any {
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		src, ok := item.(map[string]any)
		if !ok {
			src = map[string]any{"value": fmt.Sprint(item)}
		}
		row := make(map[string]any, len(src)+4)
		for k, v := range src {
			if k == disallowedRowKey {
				continue
			}
			row[k] = deepCopyValue(v)
		}
		for _, field := range canonicalRowStrings {
			row[field] = coerceString(row[field])
		}
		row["values"] = coerceList(row["values"])
		rows = append(rows, row)
	}
	return rows
}

// ReconcileRows merges the rows observed by the raw re-read with the
// pre-update prepared rows, by position: any sub-field the raw view is
// missing, or holds as null, is filled from the prepared row. The merged
// result never regresses a field that existed before the two storage views
// diverged, even when the raw write partially failed.
func ReconcileRows(prepared, raw []map[string]any) []map[string]any {
	merged := make([]map[string]any, 0, len(raw))
	for i, observed := range raw {
		row := make(map[string]any, len(observed))
		for k, v := range observed {
			row[k] = v
		}
		if i < len(prepared) {
			for k, v := range prepared[i] {
				if cur, ok := row[k]; !ok || cur == nil {
					row[k] = v
				}
			}
		}
		merged = append(merged, row)
	}
	return merged
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

func coerceList(v any) []any {
	switch list := v.(type) {
	case nil:
		return []any{}
	case []any:
		return list
	case []string:
		out := make([]any, 0, len(list))
		for _, s := range list {
			out = append(out, s)
		}
		return out
	default:
		return []any{v}
	}
}
