package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Image is an image subdocument stored inside jsonb columns
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ImageDoc maps a single image to a PostgreSQL jsonb column
type ImageDoc Image

func (d ImageDoc) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ImageDoc) Scan(value interface{}) error {
	b, ok := jsonBytes(value)
	if !ok {
		*d = ImageDoc{}
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = ImageDoc(imageFromRaw(raw))
	return nil
}

// ImageList maps a list of images to a PostgreSQL jsonb column.
// Legacy rows stored bare URL strings; Scan repairs them into image objects.
type ImageList []Image

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Image{})
	}
	return json.Marshal([]Image(l))
}

func (l *ImageList) Scan(value interface{}) error {
	b, ok := jsonBytes(value)
	if !ok {
		*l = ImageList{}
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(ImageList, 0, len(items))
	for _, item := range items {
		out = append(out, imageFromRaw(item))
	}
	*l = out
	return nil
}

func imageFromRaw(raw interface{}) Image {
	switch v := raw.(type) {
	case string:
		return Image{URL: v}
	case map[string]interface{}:
		return Image{URL: stringAt(v, "url"), Alt: stringAt(v, "alt")}
	default:
		return Image{}
	}
}

// TextRow is a free-text subdocument ({description} or richer {title, description})
type TextRow struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

// TextRows maps a list of free-text rows to a PostgreSQL jsonb column.
// Legacy rows stored bare strings; Scan repairs them into {description} rows.
type TextRows []TextRow

func (r TextRows) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]TextRow{})
	}
	return json.Marshal([]TextRow(r))
}

func (r *TextRows) Scan(value interface{}) error {
	b, ok := jsonBytes(value)
	if !ok {
		*r = TextRows{}
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(TextRows, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, TextRow{Description: v})
		case map[string]interface{}:
			out = append(out, TextRow{Title: stringAt(v, "title"), Description: stringAt(v, "description")})
		default:
			out = append(out, TextRow{Description: fmt.Sprint(v)})
		}
	}
	*r = out
	return nil
}

// AttributeRow is the mapped shape of one attribute-set entry. Only the
// declared sub-fields survive a write through this type; callers that send
// additional sub-fields rely on the raw write path to persist them.
type AttributeRow struct {
	AttributeID string   `json:"attributeId"`
	Value       string   `json:"value"`
	Unit        string   `json:"unit"`
	Values      []string `json:"values"`
}

// AttributeRows maps the attribute set to a PostgreSQL jsonb column
type AttributeRows []AttributeRow

func (r AttributeRows) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]AttributeRow{})
	}
	return json.Marshal([]AttributeRow(r))
}

func (r *AttributeRows) Scan(value interface{}) error {
	b, ok := jsonBytes(value)
	if !ok {
		*r = AttributeRows{}
		return nil
	}
	var out AttributeRows
	if err := json.Unmarshal(b, &out); err != nil {
		*r = AttributeRows{}
		return nil
	}
	*r = out
	return nil
}

// StringList maps a list of strings to a PostgreSQL jsonb column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(value interface{}) error {
	b, ok := jsonBytes(value)
	if !ok {
		*l = StringList{}
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	*l = out
	return nil
}

func jsonBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, len(v) > 0
	case string:
		return []byte(v), len(v) > 0
	default:
		return nil, false
	}
}

func stringAt(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}
