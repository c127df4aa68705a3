package supplier

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/shipping"
	domain "github.com/dropship/backend/internal/domain/supplier"
)

// FreightAdapter exposes the supplier's freight calculator as a
// shipping.FreightQuoter. Destination defaults to the US storefront
// market.
type FreightAdapter struct {
	gateway     domain.Gateway
	countryCode string
}

var _ shipping.FreightQuoter = (*FreightAdapter)(nil)

// NewFreightAdapter wraps a supplier gateway for shipping resolution
func NewFreightAdapter(gateway domain.Gateway, countryCode string) *FreightAdapter {
	if countryCode == "" {
		countryCode = "US"
	}
	return &FreightAdapter{gateway: gateway, countryCode: countryCode}
}

// QuoteFreight asks the supplier for freight options on the cart and
// returns the cheapest positive price. Items without a supplier variant
// id cannot be quoted and are skipped; a cart with none returns zero.
func (a *FreightAdapter) QuoteFreight(ctx context.Context, items []shipping.CartItem) (decimal.Decimal, error) {
	req := domain.FreightRequest{EndCountryCode: a.countryCode}
	for _, item := range items {
		if item.IsDigital || item.ExternalVariantID == "" {
			continue
		}
		req.Items = append(req.Items, domain.FreightItem{
			VID:      item.ExternalVariantID,
			Quantity: item.Quantity,
		})
	}
	if len(req.Items) == 0 {
		return decimal.Zero, nil
	}

	options, err := a.gateway.CalculateFreight(ctx, req)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.MinFreightPrice(options), nil
}
