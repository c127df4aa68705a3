package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Errors for pricing configuration
var (
	ErrInvalidMarkup         = errors.New("pricing: markup multiplier must be greater than zero")
	ErrInvalidFeePercent     = errors.New("pricing: fee percent must be between 0 and 1")
	ErrInvalidCompareAtRange = errors.New("pricing: compare-at range must satisfy 1 <= min <= max")
)

// Config holds the cost-plus pricing parameters. It is loaded from the
// settings store per sync run and treated as read-only input.
type Config struct {
	// MarkupMultiplier is applied to landed cost (supplier price + shipping)
	MarkupMultiplier decimal.Decimal `json:"markup_multiplier"`
	// FeePercent is the payment processor's percentage fee (e.g. 0.029)
	FeePercent decimal.Decimal `json:"fee_percent"`
	// FeeFixed is the payment processor's fixed per-transaction fee
	FeeFixed decimal.Decimal `json:"fee_fixed"`
	// MinimumMarginPercent is the viability threshold; products below it
	// are hidden
	MinimumMarginPercent decimal.Decimal `json:"minimum_margin_percent"`
	// CharmPricing enables the ceil-minus-a-cent retail rounding rule
	CharmPricing bool `json:"charm_pricing"`
	// CompareAtMin and CompareAtMax bound the randomized "was" price
	// multiplier
	CompareAtMin decimal.Decimal `json:"compare_at_min"`
	CompareAtMax decimal.Decimal `json:"compare_at_max"`
}

// DefaultConfig returns the stock pricing configuration
func DefaultConfig() Config {
	return Config{
		MarkupMultiplier:     decimal.NewFromInt(2),
		FeePercent:           decimal.NewFromFloat(0.029),
		FeeFixed:             decimal.NewFromFloat(0.30),
		MinimumMarginPercent: decimal.NewFromInt(20),
		CharmPricing:         true,
		CompareAtMin:         decimal.NewFromFloat(1.8),
		CompareAtMax:         decimal.NewFromFloat(2.2),
	}
}

// Validate validates the pricing configuration
func (c *Config) Validate() error {
	if !c.MarkupMultiplier.IsPositive() {
		return ErrInvalidMarkup
	}
	if c.FeePercent.IsNegative() || c.FeePercent.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidFeePercent
	}
	one := decimal.NewFromInt(1)
	if c.CompareAtMin.LessThan(one) || c.CompareAtMax.LessThan(c.CompareAtMin) {
		return ErrInvalidCompareAtRange
	}
	return nil
}

// ConfigStore loads and persists the pricing configuration
type ConfigStore interface {
	LoadPricingConfig(ctx context.Context) (*Config, error)
	SavePricingConfig(ctx context.Context, cfg *Config) error
}
