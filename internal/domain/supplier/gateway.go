package supplier

import "context"

// Gateway is the typed surface of the supplier's REST API. Every
// implementation is responsible for authentication, rate limiting, and
// envelope checking; callers see only domain models and the error
// taxonomy in errors.go.
type Gateway interface {
	// ListProducts fetches one page of the supplier catalog
	ListProducts(ctx context.Context, query ListQuery) (*ProductPage, error)

	// GetProductDetail fetches the full product, including variants,
	// description, and the complete image set
	GetProductDetail(ctx context.Context, pid string) (*Product, error)

	// GetStock fetches per-warehouse stock levels for a variant
	GetStock(ctx context.Context, vid string) ([]StockEntry, error)

	// CalculateFreight fetches shipping options for a prospective
	// shipment; callers typically take the minimum price
	CalculateFreight(ctx context.Context, req FreightRequest) ([]FreightOption, error)

	// GetReviews fetches buyer reviews for a product
	GetReviews(ctx context.Context, pid string, pageNum, pageSize int) ([]Review, error)

	// CreateOrder submits a fulfillment order
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// GetTracking fetches shipment tracking for a supplier order
	GetTracking(ctx context.Context, orderID string) (*Tracking, error)
}
