package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProduct(t *testing.T) {
	t.Run("StringifiedListFields", func(t *testing.T) {
		payload := map[string]any{
			"name":          "Face Cream",
			"ingredients":   `[{"description":"Aloe"},{"description":"Shea"}]`,
			"attributeSet":  `[{"attributeId":"a1","value":"50","unit":"ml"}]`,
			"howToUseSteps": `[{"description":"Apply twice daily"}]`,
		}

		doc := NormalizeProduct(payload)

		ingredients, ok := doc["ingredients"].([]any)
		require.True(t, ok)
		require.Len(t, ingredients, 2)
		assert.Equal(t, map[string]any{"description": "Aloe"}, ingredients[0])

		rows, ok := doc["attributeSet"].([]any)
		require.True(t, ok)
		require.Len(t, rows, 1)
		row, ok := rows[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a1", row["attributeId"])
	})

	t.Run("UnparseableStringFallsBack", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"benefits":     "soothes irritation",
			"attributeSet": "not json",
		})

		benefits, ok := doc["benefits"].([]any)
		require.True(t, ok)
		require.Len(t, benefits, 1)
		assert.Equal(t, map[string]any{"description": "soothes irritation"}, benefits[0])

		rows, ok := doc["attributeSet"].([]any)
		require.True(t, ok)
		require.Len(t, rows, 1)
		assert.Equal(t, "not json", rows[0])
	})

	t.Run("BooleanStrings", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{"isTopRated": "true"})
		assert.Equal(t, true, doc["isTopRated"])

		doc = NormalizeProduct(map[string]any{"isTopRated": "false"})
		assert.Equal(t, false, doc["isTopRated"])

		doc = NormalizeProduct(map[string]any{"isTopRated": "yes"})
		assert.Equal(t, "yes", doc["isTopRated"])
	})

	t.Run("BareImageStrings", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"thumbnail": "https://cdn.example.com/t.jpg",
			"images":    []any{"https://cdn.example.com/1.jpg"},
		})

		assert.Equal(t, map[string]any{"url": "https://cdn.example.com/t.jpg", "alt": ""}, doc["thumbnail"])

		images, ok := doc["images"].([]any)
		require.True(t, ok)
		require.Len(t, images, 1)
		assert.Equal(t, map[string]any{"url": "https://cdn.example.com/1.jpg", "alt": ""}, images[0])
	})

	t.Run("CharIndexedImage", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"images": []any{map[string]any{
				"0": "h", "1": "t", "2": "t", "3": "p", "4": "s",
				"5": ":", "6": "/", "7": "/", "8": "x", "9": ".", "10": "co",
			}},
		})

		images := doc["images"].([]any)
		require.Len(t, images, 1)
		assert.Equal(t, map[string]any{"url": "https://x.co", "alt": ""}, images[0])
	})

	t.Run("LegacyTextForms", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"benefits": []any{
				map[string]any{"description": "Keeps skin soft"},
				map[string]any{"0": "G", "1": "l", "2": "o", "3": "w", "4": "s"},
				"Hydrates skin507f1f77bcf86cd799439011",
			},
		})

		benefits := doc["benefits"].([]any)
		require.Len(t, benefits, 3)
		assert.Equal(t, map[string]any{"description": "Keeps skin soft"}, benefits[0])
		assert.Equal(t, map[string]any{"description": "Glows"}, benefits[1])
		assert.Equal(t, map[string]any{"description": "Hydrates skin"}, benefits[2])
	})

	t.Run("HexSuffixOnlyAtEnd", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"precautions": []any{"507f1f77bcf86cd799439011 keep away from eyes"},
		})

		precautions := doc["precautions"].([]any)
		require.Len(t, precautions, 1)
		assert.Equal(t,
			map[string]any{"description": "507f1f77bcf86cd799439011 keep away from eyes"},
			precautions[0])
	})

	t.Run("BareStringsWrapped", func(t *testing.T) {
		doc := NormalizeProduct(map[string]any{
			"highlights": []any{"Vegan", map[string]any{"description": "Cruelty free"}},
		})

		highlights := doc["highlights"].([]any)
		require.Len(t, highlights, 2)
		assert.Equal(t, map[string]any{"description": "Vegan"}, highlights[0])
		assert.Equal(t, map[string]any{"description": "Cruelty free"}, highlights[1])
	})

	t.Run("Idempotent", func(t *testing.T) {
		payload := map[string]any{
			"name":       "Serum",
			"isTopRated": "true",
			"thumbnail":  "https://cdn.example.com/s.jpg",
			"benefits":   []any{"Brightens507f1f77bcf86cd799439011"},
			"images":     []any{map[string]any{"0": "a", "1": "b"}},
			"highlights": []any{"Vegan"},
		}

		once := NormalizeProduct(payload)
		twice := NormalizeProduct(once)
		assert.Equal(t, once, twice)
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		payload := map[string]any{
			"isTopRated": "true",
			"benefits":   []any{"Hydrates skin507f1f77bcf86cd799439011"},
			"images":     []any{"https://cdn.example.com/1.jpg"},
		}

		NormalizeProduct(payload)

		assert.Equal(t, "true", payload["isTopRated"])
		assert.Equal(t, []any{"Hydrates skin507f1f77bcf86cd799439011"}, payload["benefits"])
		assert.Equal(t, []any{"https://cdn.example.com/1.jpg"}, payload["images"])
	})
}
