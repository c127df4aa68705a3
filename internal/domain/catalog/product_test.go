package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func viableResult() pricing.Result {
	return pricing.Result{
		SupplierPrice:  dec("10"),
		ShippingCost:   dec("3"),
		ProcessorFee:   dec("1.05"),
		TotalCost:      dec("14.05"),
		RetailPrice:    dec("25.99"),
		CompareAtPrice: dec("49.99"),
		MarginDollars:  dec("11.94"),
		MarginPercent:  dec("45.94"),
		IsViable:       true,
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates a pending product with a slug", func(t *testing.T) {
		p, err := NewProduct("ext-1", "Wireless Charger 10W")
		require.NoError(t, err)

		assert.NotEqual(t, "", p.ID.String())
		assert.Equal(t, "ext-1", p.ExternalID)
		assert.Equal(t, "wireless-charger-10w", p.Slug)
		assert.Equal(t, ProductStatusPending, p.Status)
		assert.Equal(t, WarehouseCN, p.Warehouse)
		assert.NotNil(t, p.Images)
	})

	t.Run("rejects empty external id", func(t *testing.T) {
		_, err := NewProduct("", "Widget")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EXTERNAL_ID", domainErr.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("ext-1", "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})
}

func TestProduct_ApplyPricing(t *testing.T) {
	t.Run("viable result activates and fills cost fields", func(t *testing.T) {
		p, err := NewProduct("ext-1", "Widget")
		require.NoError(t, err)

		p.ApplyPricing(viableResult())

		assert.Equal(t, ProductStatusActive, p.Status)
		assert.True(t, p.RetailPrice.Equal(dec("25.99")))
		assert.True(t, p.TotalCost.Equal(dec("14.05")))
		assert.True(t, p.MarginPercent.Equal(dec("45.94")))
	})

	t.Run("non-viable result hides the product", func(t *testing.T) {
		p, err := NewProduct("ext-1", "Widget")
		require.NoError(t, err)

		result := viableResult()
		result.IsViable = false
		p.ApplyPricing(result)

		assert.Equal(t, ProductStatusHidden, p.Status)
	})

	t.Run("zero retail price leaves status untouched", func(t *testing.T) {
		p, err := NewProduct("ext-1", "Widget")
		require.NoError(t, err)

		p.ApplyPricing(pricing.Result{IsViable: true})
		assert.Equal(t, ProductStatusPending, p.Status)
	})
}

func TestProduct_Lifecycle(t *testing.T) {
	p, err := NewProduct("ext-1", "Widget")
	require.NoError(t, err)

	t.Run("cannot activate without a price", func(t *testing.T) {
		err := p.Activate()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})

	t.Run("activates once priced", func(t *testing.T) {
		p.RetailPrice = dec("19.99")
		require.NoError(t, p.Activate())
		assert.True(t, p.IsActive())
	})

	t.Run("hide", func(t *testing.T) {
		p.Hide()
		assert.True(t, p.IsHidden())
	})
}

func TestProduct_Setters(t *testing.T) {
	p, err := NewProduct("ext-1", "Widget")
	require.NoError(t, err)

	t.Run("rename regenerates the slug", func(t *testing.T) {
		require.NoError(t, p.Rename("Café Lamp"))
		assert.Equal(t, "cafe-lamp", p.Slug)
		assert.Error(t, p.Rename(""))
	})

	t.Run("set images de-duplicates preserving order", func(t *testing.T) {
		p.SetImages([]string{"a.jpg", "", "b.jpg", "a.jpg"})
		assert.Equal(t, ImageList{"a.jpg", "b.jpg"}, p.Images)
	})

	t.Run("negative stock clamps to zero", func(t *testing.T) {
		p.SetStock(-5)
		assert.Equal(t, 0, p.StockCount)
	})

	t.Run("mark synced", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		p.MarkSynced(at)
		assert.Equal(t, at, p.LastSyncedAt)
	})
}

func TestParseWarehouse(t *testing.T) {
	assert.Equal(t, WarehouseUS, ParseWarehouse("US"))
	assert.Equal(t, WarehouseUS, ParseWarehouse("us"))
	assert.Equal(t, WarehouseCA, ParseWarehouse("ca"))
	assert.Equal(t, WarehouseCN, ParseWarehouse("CN"))
	assert.Equal(t, WarehouseCN, ParseWarehouse("unknown"))
	assert.Equal(t, WarehouseCN, ParseWarehouse(""))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Wireless Charger 10W", "wireless-charger-10w"},
		{"Café au Lait", "cafe-au-lait"},
		{"  spaced   out  ", "spaced-out"},
		{"UPPER_case!!", "upper-case"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
