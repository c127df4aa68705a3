package pricing

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

// Result is the immutable outcome of a cost-plus pricing computation.
// Produced fresh each sync; never partially mutated.
type Result struct {
	SupplierPrice  decimal.Decimal `json:"supplier_price"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	ProcessorFee   decimal.Decimal `json:"processor_fee"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	MarginDollars  decimal.Decimal `json:"margin_dollars"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	IsViable       bool            `json:"is_viable"`
}

// zeroResult is returned for degenerate inputs; callers skip or hide the item
func zeroResult() Result {
	return Result{
		SupplierPrice:  decimal.Zero,
		ShippingCost:   decimal.Zero,
		ProcessorFee:   decimal.Zero,
		TotalCost:      decimal.Zero,
		RetailPrice:    decimal.Zero,
		CompareAtPrice: decimal.Zero,
		MarginDollars:  decimal.Zero,
		MarginPercent:  decimal.Zero,
		IsViable:       false,
	}
}

// Calculator derives retail prices from landed cost. Compute is pure and
// deterministic; CompareAt draws from the calculator's random source and
// is intentionally non-deterministic unless seeded.
type Calculator struct {
	config Config
	rng    *rand.Rand
}

// NewCalculator creates a calculator with an unseeded random source
func NewCalculator(config Config) *Calculator {
	return NewCalculatorWithRand(config, rand.New(rand.NewSource(rand.Int63())))
}

// NewCalculatorWithRand creates a calculator with the given random source.
// Tests seed it for reproducible compare-at prices.
func NewCalculatorWithRand(config Config, rng *rand.Rand) *Calculator {
	return &Calculator{config: config, rng: rng}
}

// Compute derives the full pricing result for one item:
//
//	baseCost   = supplierPrice + shippingCost
//	retail     = ceil(baseCost * markup) - 0.01   (charm pricing)
//	fee        = retail * feePercent + feeFixed
//	totalCost  = baseCost + fee
//	margin     = retail - totalCost
//
// Non-positive supplier prices, negative shipping, or a non-positive
// markup yield an all-zero, non-viable result rather than an error.
func (c *Calculator) Compute(supplierPrice, shippingCost, markup decimal.Decimal) Result {
	if !supplierPrice.IsPositive() || shippingCost.IsNegative() || !markup.IsPositive() {
		return zeroResult()
	}

	baseCost := supplierPrice.Add(shippingCost)

	var retail decimal.Decimal
	if c.config.CharmPricing {
		retail = baseCost.Mul(markup).Ceil().Sub(decimal.NewFromFloat(0.01))
	} else {
		retail = baseCost.Mul(markup).Round(2)
	}
	if !retail.IsPositive() {
		return zeroResult()
	}

	fee := retail.Mul(c.config.FeePercent).Add(c.config.FeeFixed).Round(2)
	totalCost := baseCost.Add(fee)
	margin := retail.Sub(totalCost)
	marginPercent := margin.Div(retail).Mul(decimal.NewFromInt(100)).Round(2)

	return Result{
		SupplierPrice:  supplierPrice,
		ShippingCost:   shippingCost,
		ProcessorFee:   fee,
		TotalCost:      totalCost,
		RetailPrice:    retail,
		CompareAtPrice: c.CompareAt(retail),
		MarginDollars:  margin,
		MarginPercent:  marginPercent,
		IsViable:       marginPercent.GreaterThanOrEqual(c.config.MinimumMarginPercent),
	}
}

// ComputeFromFloats is a convenience wrapper guarding against the NaN and
// infinity values float-typed supplier feeds can produce.
func (c *Calculator) ComputeFromFloats(supplierPrice, shippingCost, markup float64) Result {
	for _, v := range []float64{supplierPrice, shippingCost, markup} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return zeroResult()
		}
	}
	return c.Compute(
		decimal.NewFromFloat(supplierPrice),
		decimal.NewFromFloat(shippingCost),
		decimal.NewFromFloat(markup),
	)
}

// CompareAt produces a randomized "was" price for display by drawing a
// multiplier uniformly from the configured range.
func (c *Calculator) CompareAt(retail decimal.Decimal) decimal.Decimal {
	if !retail.IsPositive() {
		return decimal.Zero
	}

	span := c.config.CompareAtMax.Sub(c.config.CompareAtMin)
	multiplier := c.config.CompareAtMin.Add(span.Mul(decimal.NewFromFloat(c.rng.Float64())))
	return retail.Mul(multiplier).Round(2)
}

// Markup returns the configured markup multiplier
func (c *Calculator) Markup() decimal.Decimal {
	return c.config.MarkupMultiplier
}

// MinimumMargin returns the configured viability threshold
func (c *Calculator) MinimumMargin() decimal.Decimal {
	return c.config.MinimumMarginPercent
}
