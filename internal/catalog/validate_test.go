package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRefs answers reference lookups from fixed id sets
type fakeRefs struct {
	liveCategories    map[string]bool
	liveSubcategories map[string]bool
	brands            map[string]bool
	liveAttributes    map[string]bool
	products          map[string]bool
	err               error
}

func (f *fakeRefs) CategoryLive(_ context.Context, id string) (bool, error) {
	return f.liveCategories[id], f.err
}

func (f *fakeRefs) SubcategoryLive(_ context.Context, id string) (bool, error) {
	return f.liveSubcategories[id], f.err
}

func (f *fakeRefs) BrandExists(_ context.Context, id string) (bool, error) {
	return f.brands[id], f.err
}

func (f *fakeRefs) AttributeLive(_ context.Context, id string) (bool, error) {
	return f.liveAttributes[id], f.err
}

func (f *fakeRefs) ProductExists(_ context.Context, id string) (bool, error) {
	return f.products[id], f.err
}

const (
	catID  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	subID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	brID   = "16fd2706-8baf-433b-82eb-8c7fada847da"
	attrID = "6ecd8c99-4036-403d-bf84-cf8400f67836"
	prodID = "9b9773e4-33c0-4a89-95dc-d4eed36be84d"
)

func allRefs() *fakeRefs {
	return &fakeRefs{
		liveCategories:    map[string]bool{catID: true},
		liveSubcategories: map[string]bool{subID: true},
		brands:            map[string]bool{brID: true},
		liveAttributes:    map[string]bool{attrID: true},
		products:          map[string]bool{prodID: true},
	}
}

func TestCanonicalID(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		id, err := CanonicalID("0F8FAD5B-D9CB-469F-A165-70867728950E")
		require.NoError(t, err)
		assert.Equal(t, catID, id)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := CanonicalID("not-an-id")
		assert.Error(t, err)
	})
}

func TestValidateReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("AllLive", func(t *testing.T) {
		doc := map[string]any{
			"category":    catID,
			"subcategory": subID,
			"brand":       brID,
			"attributeSet": []any{
				map[string]any{"attributeId": attrID, "value": "50"},
			},
			"frequentlyPurchased": []any{prodID},
		}
		assert.NoError(t, ValidateReferences(ctx, doc, allRefs()))
	})

	t.Run("AbsentFieldsSkipped", func(t *testing.T) {
		assert.NoError(t, ValidateReferences(ctx, map[string]any{"name": "x"}, allRefs()))
	})

	t.Run("EmptyStringSkipped", func(t *testing.T) {
		doc := map[string]any{"category": ""}
		assert.NoError(t, ValidateReferences(ctx, doc, allRefs()))
	})

	t.Run("MalformedIdentifier", func(t *testing.T) {
		err := ValidateReferences(ctx, map[string]any{"category": "nope"}, allRefs())

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category", verr.Field)
		assert.Equal(t, "nope", verr.Value)
	})

	t.Run("DeadCategory", func(t *testing.T) {
		refs := allRefs()
		refs.liveCategories = map[string]bool{}

		err := ValidateReferences(ctx, map[string]any{"category": catID}, refs)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category", verr.Field)
	})

	t.Run("BrandNeedsOnlyExistence", func(t *testing.T) {
		// the brand lookup never filters on status or deletion; the fake
		// answers purely on membership
		doc := map[string]any{"brand": brID}
		assert.NoError(t, ValidateReferences(ctx, doc, allRefs()))

		refs := allRefs()
		refs.brands = map[string]bool{}
		err := ValidateReferences(ctx, doc, refs)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "brand", verr.Field)
	})

	t.Run("AttributeRowNamed", func(t *testing.T) {
		doc := map[string]any{
			"attributeSet": []any{
				map[string]any{"attributeId": attrID},
				map[string]any{"attributeId": subID},
			},
		}

		err := ValidateReferences(ctx, doc, allRefs())

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "attributeSet[1].attributeId", verr.Field)
	})

	t.Run("RowsWithoutAttributeIDSkipped", func(t *testing.T) {
		doc := map[string]any{
			"attributeSet": []any{map[string]any{"value": "free-form"}},
		}
		assert.NoError(t, ValidateReferences(ctx, doc, allRefs()))
	})

	t.Run("FrequentlyPurchasedNamed", func(t *testing.T) {
		doc := map[string]any{"frequentlyPurchased": []any{prodID, catID}}

		err := ValidateReferences(ctx, doc, allRefs())

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "frequentlyPurchased[1]", verr.Field)
	})

	t.Run("PopulatedSubdocument", func(t *testing.T) {
		doc := map[string]any{
			"category": map[string]any{"id": catID, "name": "Skincare"},
		}
		assert.NoError(t, ValidateReferences(ctx, doc, allRefs()))
	})

	t.Run("LookupFaultIsNotValidation", func(t *testing.T) {
		refs := allRefs()
		refs.err = errors.New("connection reset")

		err := ValidateReferences(ctx, map[string]any{"category": catID}, refs)

		require.Error(t, err)
		var verr *ValidationError
		assert.False(t, errors.As(err, &verr))
	})
}
