package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/catalog"
)

func mustCategory(t *testing.T, name string) catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name)
	require.NoError(t, err)
	return *c
}

func TestKeywordClassifier_Classify(t *testing.T) {
	classifier := NewKeywordClassifier()

	electronics := mustCategory(t, "Electronics")
	petSupplies := mustCategory(t, "Pet Supplies")
	womens := mustCategory(t, "Womens Fashion")
	categories := []catalog.Category{electronics, petSupplies, womens}

	t.Run("matches the catalog category name first", func(t *testing.T) {
		got := classifier.Classify("Consumer Electronics", "Gadget", categories)
		require.NotNil(t, got)
		assert.Equal(t, electronics.ID, *got)
	})

	t.Run("category name match is case insensitive", func(t *testing.T) {
		got := classifier.Classify("", "PET SUPPLIES bundle", categories)
		require.NotNil(t, got)
		assert.Equal(t, petSupplies.ID, *got)
	})

	t.Run("falls back to the keyword table by slug", func(t *testing.T) {
		got := classifier.Classify("", "Wireless Charger 10W", categories)
		require.NotNil(t, got)
		assert.Equal(t, electronics.ID, *got)
	})

	t.Run("keyword match in product name", func(t *testing.T) {
		got := classifier.Classify("Apparel", "Summer Floral Dress", categories)
		require.NotNil(t, got)
		assert.Equal(t, womens.ID, *got)
	})

	t.Run("keyword rule without a matching category is skipped", func(t *testing.T) {
		// "motorcycle" triggers the automotive rule, but no automotive
		// category exists in the catalog
		got := classifier.Classify("", "Motorcycle Gloves", categories)
		assert.Nil(t, got)
	})

	t.Run("nil when nothing matches", func(t *testing.T) {
		got := classifier.Classify("Misc", "Mystery Box", categories)
		assert.Nil(t, got)
	})

	t.Run("nil with an empty catalog", func(t *testing.T) {
		got := classifier.Classify("Electronics", "Wireless Charger", nil)
		assert.Nil(t, got)
	})
}
