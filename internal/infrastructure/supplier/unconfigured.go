package supplier

import (
	"context"

	domain "github.com/dropship/backend/internal/domain/supplier"
)

// UnconfiguredGateway stands in when no supplier credentials are set.
// Every operation fails with ErrNotConfigured, which the HTTP layer
// surfaces as an upstream auth error, so the rest of the application
// can boot and serve locally persisted data.
type UnconfiguredGateway struct{}

var _ domain.Gateway = (*UnconfiguredGateway)(nil)

func (UnconfiguredGateway) ListProducts(context.Context, domain.ListQuery) (*domain.ProductPage, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) GetProductDetail(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) GetStock(context.Context, string) ([]domain.StockEntry, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) CalculateFreight(context.Context, domain.FreightRequest) ([]domain.FreightOption, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) GetReviews(context.Context, string, int, int) ([]domain.Review, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) CreateOrder(context.Context, domain.OrderRequest) (*domain.OrderResult, error) {
	return nil, domain.ErrNotConfigured
}

func (UnconfiguredGateway) GetTracking(context.Context, string) (*domain.Tracking, error) {
	return nil, domain.ErrNotConfigured
}
