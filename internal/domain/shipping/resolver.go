package shipping

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Shipping methods reported in quotes
const (
	MethodDigital      = "Digital Delivery"
	MethodFreeShipping = "Free Shipping"
	MethodWeightTier   = "Weight Tier"
	MethodUnknown      = "Unknown Weight"
	MethodFreight      = "Freight Quote"
	MethodFlatRate     = "Flat Rate"
)

// CartItem is the slice of cart state the resolver needs per line item
type CartItem struct {
	Name              string
	ExternalVariantID string
	Quantity          int
	Price             decimal.Decimal
	WeightGrams       int
	IsDigital         bool
}

// Quote is the resolved shipping charge
type Quote struct {
	Cost   decimal.Decimal `json:"cost"`
	Method string          `json:"method"`
	Label  string          `json:"label"`
}

// FreightQuoter obtains a real-time freight price for a set of items.
// A zero result with nil error means no quote was available.
type FreightQuoter interface {
	QuoteFreight(ctx context.Context, items []CartItem) (decimal.Decimal, error)
}

// Resolver decides the shipping charge for a cart by walking an ordered
// rule chain: digital bypass, free shipping, real-time freight (when
// enabled, overriding tiers), unknown-weight rate, weight tiers, and a
// flat-rate fallback. The first applicable rule wins.
type Resolver struct {
	quoter FreightQuoter
	logger *zap.Logger
}

// NewResolver creates a resolver. The quoter may be nil when real-time
// freight is unavailable (e.g. sync-time resolution).
func NewResolver(quoter FreightQuoter, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{quoter: quoter, logger: logger}
}

// Resolve computes the shipping charge for the given cart
func (r *Resolver) Resolve(ctx context.Context, items []CartItem, subtotal decimal.Decimal, cfg *Config) Quote {
	if allDigital(items) {
		return Quote{Cost: decimal.Zero, Method: MethodDigital, Label: "Instant delivery"}
	}

	weight := determiningWeight(items)

	// Free shipping: threshold met and cart within the weight cap
	if cfg.FreeShippingEnabled && subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		if cfg.FreeShippingMaxWeightGrams <= 0 || weight <= cfg.FreeShippingMaxWeightGrams {
			return Quote{Cost: decimal.Zero, Method: MethodFreeShipping, Label: "Free shipping"}
		}
	}

	// Real-time freight overrides tiers when it yields a positive price
	if cfg.FreightQuoteEnabled && r.quoter != nil {
		if quote, ok := r.freightQuote(ctx, items, cfg); ok {
			return quote
		}
	}

	// No weight data on any physical item
	if weight <= 0 {
		return Quote{Cost: cfg.UnknownWeightRate, Method: MethodUnknown, Label: "Standard shipping"}
	}

	for _, tier := range cfg.SortedTiers() {
		if tier.MaxWeightGrams == nil || weight <= *tier.MaxWeightGrams {
			return Quote{Cost: tier.Price, Method: MethodWeightTier, Label: tier.Label}
		}
	}

	return Quote{Cost: cfg.FlatRate, Method: MethodFlatRate, Label: "Flat rate shipping"}
}

// freightQuote asks the supplier for a live freight price and applies
// the configured markup and minimum charge
func (r *Resolver) freightQuote(ctx context.Context, items []CartItem, cfg *Config) (Quote, bool) {
	price, err := r.quoter.QuoteFreight(ctx, items)
	if err != nil {
		r.logger.Warn("Freight quote failed, falling back to tiers", zap.Error(err))
		return Quote{}, false
	}
	if !price.IsPositive() {
		return Quote{}, false
	}

	markup := decimal.NewFromInt(1).Add(cfg.FreightMarkupPercent.Div(decimal.NewFromInt(100)))
	cost := price.Mul(markup).Round(2)
	if cost.LessThan(cfg.FreightMinimum) {
		cost = cfg.FreightMinimum
	}
	return Quote{Cost: cost, Method: MethodFreight, Label: "Calculated shipping"}, true
}

// determiningWeight returns the heaviest known item weight in the cart.
// Heavier single items dominate dropship parcel pricing, so tiers key on
// the heaviest item rather than the summed weight.
func determiningWeight(items []CartItem) int {
	heaviest := 0
	for _, item := range items {
		if item.IsDigital {
			continue
		}
		if item.WeightGrams > heaviest {
			heaviest = item.WeightGrams
		}
	}
	return heaviest
}

// allDigital reports whether every item in the cart is digital
func allDigital(items []CartItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsDigital {
			return false
		}
	}
	return true
}
