package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/catalog"
)

// ProductResponse is the wire representation of a catalog product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	ExternalID     string          `json:"external_id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description,omitempty"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	Images         []string        `json:"images"`
	SupplierPrice  decimal.Decimal `json:"supplier_price"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	StockCount     int             `json:"stock_count"`
	Warehouse      string          `json:"warehouse"`
	Status         string          `json:"status"`
	LastSyncedAt   time.Time       `json:"last_synced_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductDetailResponse extends ProductResponse with variants
type ProductDetailResponse struct {
	ProductResponse
	Variants []VariantResponse `json:"variants"`
}

// VariantResponse is the wire representation of a product variant
type VariantResponse struct {
	ID                uuid.UUID       `json:"id"`
	ExternalVariantID string          `json:"external_variant_id"`
	Name              string          `json:"name"`
	Color             *string         `json:"color,omitempty"`
	Size              *string         `json:"size,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Image             string          `json:"image,omitempty"`
	Stock             int             `json:"stock"`
	Active            bool            `json:"active"`
}

// CategoryResponse is the wire representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Images:         images,
		SupplierPrice:  p.SupplierPrice,
		ShippingCost:   p.ShippingCost,
		RetailPrice:    p.RetailPrice,
		CompareAtPrice: p.CompareAtPrice,
		MarginPercent:  p.MarginPercent,
		StockCount:     p.StockCount,
		Warehouse:      string(p.Warehouse),
		Status:         string(p.Status),
		LastSyncedAt:   p.LastSyncedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func toVariantResponses(variants []catalog.Variant) []VariantResponse {
	out := make([]VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, VariantResponse{
			ID:                v.ID,
			ExternalVariantID: v.ExternalVariantID,
			Name:              v.Name,
			Color:             v.Color,
			Size:              v.Size,
			Price:             v.Price,
			Image:             v.Image,
			Stock:             v.Stock,
			Active:            v.Active,
		})
	}
	return out
}

func toCategoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:          c.ID,
			Slug:        c.Slug,
			Name:        c.Name,
			Description: c.Description,
			SortOrder:   c.SortOrder,
		})
	}
	return out
}
