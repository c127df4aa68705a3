package shipping

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// Errors for shipping configuration
var (
	ErrInvalidTierPrice   = errors.New("shipping: weight tier price cannot be negative")
	ErrDuplicateCatchAll  = errors.New("shipping: at most one catch-all weight tier is allowed")
	ErrInvalidFlatRate    = errors.New("shipping: flat rate cannot be negative")
	ErrInvalidFreightTerm = errors.New("shipping: freight markup percent cannot be negative")
)

// WeightTier is a shipping price bracket keyed by maximum item weight.
// A nil MaxWeightGrams marks the catch-all tier that absorbs any weight.
type WeightTier struct {
	MaxWeightGrams *int            `json:"max_weight_grams"`
	Price          decimal.Decimal `json:"price"`
	Label          string          `json:"label"`
}

// Config holds the layered shipping-cost policy. It is loaded once per
// resolution call from the settings store and treated as read-only.
type Config struct {
	// Free shipping rule
	FreeShippingEnabled        bool            `json:"free_shipping_enabled"`
	FreeShippingThreshold      decimal.Decimal `json:"free_shipping_threshold"`
	FreeShippingMaxWeightGrams int             `json:"free_shipping_max_weight_grams"` // 0 = no cap

	// Weight tiers, the default method
	WeightTiers []WeightTier `json:"weight_tiers"`

	// UnknownWeightRate applies when no weight data is available
	UnknownWeightRate decimal.Decimal `json:"unknown_weight_rate"`

	// Real-time freight quoting (checkout-time only)
	FreightQuoteEnabled  bool            `json:"freight_quote_enabled"`
	FreightMarkupPercent decimal.Decimal `json:"freight_markup_percent"`
	FreightMinimum       decimal.Decimal `json:"freight_minimum"`

	// FlatRate is the last-resort charge
	FlatRate decimal.Decimal `json:"flat_rate"`
}

// DefaultConfig returns the stock shipping configuration
func DefaultConfig() Config {
	light := 500
	medium := 2000
	return Config{
		FreeShippingEnabled:        true,
		FreeShippingThreshold:      decimal.NewFromInt(50),
		FreeShippingMaxWeightGrams: 2000,
		WeightTiers: []WeightTier{
			{MaxWeightGrams: &light, Price: decimal.NewFromFloat(4.99), Label: "Standard (light)"},
			{MaxWeightGrams: &medium, Price: decimal.NewFromFloat(7.99), Label: "Standard"},
			{MaxWeightGrams: nil, Price: decimal.NewFromFloat(12.99), Label: "Standard (heavy)"},
		},
		UnknownWeightRate:    decimal.NewFromFloat(6.99),
		FreightQuoteEnabled:  false,
		FreightMarkupPercent: decimal.NewFromInt(15),
		FreightMinimum:       decimal.NewFromFloat(3.99),
		FlatRate:             decimal.NewFromFloat(9.99),
	}
}

// Validate validates the shipping configuration
func (c *Config) Validate() error {
	catchAlls := 0
	for _, tier := range c.WeightTiers {
		if tier.Price.IsNegative() {
			return ErrInvalidTierPrice
		}
		if tier.MaxWeightGrams == nil {
			catchAlls++
		}
	}
	if catchAlls > 1 {
		return ErrDuplicateCatchAll
	}
	if c.FlatRate.IsNegative() || c.UnknownWeightRate.IsNegative() {
		return ErrInvalidFlatRate
	}
	if c.FreightMarkupPercent.IsNegative() {
		return ErrInvalidFreightTerm
	}
	return nil
}

// SortedTiers returns the weight tiers sorted ascending by max weight,
// with the catch-all tier (nil max) last
func (c *Config) SortedTiers() []WeightTier {
	tiers := make([]WeightTier, len(c.WeightTiers))
	copy(tiers, c.WeightTiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		a, b := tiers[i].MaxWeightGrams, tiers[j].MaxWeightGrams
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return tiers
}

// ConfigStore loads and persists the shipping configuration
type ConfigStore interface {
	LoadShippingConfig(ctx context.Context) (*Config, error)
	SaveShippingConfig(ctx context.Context, cfg *Config) error
}
