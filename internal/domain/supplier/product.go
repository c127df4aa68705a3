package supplier

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is a supplier-side product variation
type Variant struct {
	VID         string
	Name        string
	Price       decimal.Decimal
	Image       string
	WeightGrams int
	Stock       int
}

// Product is a supplier catalog item as fetched from the provider.
// Price is kept raw because the feed may encode a min-max range; the
// pricing package owns parsing it. Transient: fetched per sync page,
// never persisted as-is.
type Product struct {
	PID          string
	Name         string
	Price        string
	WeightGrams  int
	CategoryName string
	Image        string
	Images       []string
	Description  string
	SourceFrom   string
	// DeliveryDays is the upper bound of the feed's delivery estimate,
	// 0 when the feed omits it
	DeliveryDays int
	Variants     []Variant
}

// HasVariants reports whether the product carries purchasable variants
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// ProductPage is one page of the supplier's product list
type ProductPage struct {
	Items    []Product
	PageNum  int
	PageSize int
	Total    int64
}

// HasMore reports whether pages remain after this one
func (p *ProductPage) HasMore() bool {
	return int64(p.PageNum*p.PageSize) < p.Total
}

// ListQuery narrows a product list request
type ListQuery struct {
	PageNum     int
	PageSize    int
	CategoryID  string
	NameQuery   string
	CountryCode string
}

// FreightItem identifies one variant and quantity for a freight quote
type FreightItem struct {
	VID      string
	Quantity int
}

// FreightRequest asks for shipping options to a destination country
type FreightRequest struct {
	EndCountryCode string
	Items          []FreightItem
}

// FreightOption is one logistic channel offered for a shipment
type FreightOption struct {
	LogisticName string
	Price        decimal.Decimal
	Aging        string
}

// MinFreightPrice returns the cheapest positive option, or zero when the
// list offers none
func MinFreightPrice(options []FreightOption) decimal.Decimal {
	min := decimal.Zero
	for _, opt := range options {
		if !opt.Price.IsPositive() {
			continue
		}
		if min.IsZero() || opt.Price.LessThan(min) {
			min = opt.Price
		}
	}
	return min
}

// StockEntry is the stock level of one variant in one warehouse
type StockEntry struct {
	VID         string
	CountryCode string
	Quantity    int
}

// Review is a buyer review attached to a supplier product
type Review struct {
	CommentID string
	Comment   string
	Score     int
	Images    []string
	CreatedAt time.Time
}

// OrderItem is one line of a fulfillment order
type OrderItem struct {
	VID      string
	Quantity int
}

// OrderRequest submits a fulfillment order to the supplier
type OrderRequest struct {
	OrderNumber    string
	CountryCode    string
	ReceiverName   string
	ReceiverPhone  string
	Province       string
	City           string
	Address        string
	ZipCode        string
	LogisticName   string
	Items          []OrderItem
}

// OrderResult is the supplier's acknowledgement of a created order
type OrderResult struct {
	OrderID string
	Amount  decimal.Decimal
}

// TrackingEvent is one scan event on a shipment's route
type TrackingEvent struct {
	Description string
	OccurredAt  time.Time
}

// Tracking is the shipment status of a fulfilled order
type Tracking struct {
	TrackingNumber string
	Carrier        string
	Status         string
	Events         []TrackingEvent
}
