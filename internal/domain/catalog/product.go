package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a catalog product
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusPending ProductStatus = "pending"
	ProductStatusHidden  ProductStatus = "hidden"
)

// Warehouse identifies the fulfillment origin of a product
type Warehouse string

const (
	WarehouseUS Warehouse = "US"
	WarehouseCN Warehouse = "CN"
	WarehouseCA Warehouse = "CA"
)

// ImageList stores an ordered, de-duplicated list of image URLs as JSON
type ImageList []string

// Value implements driver.Valuer for JSON storage
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON storage
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported image list type %T", value)
	}
}

// Product is a priced, categorized, shippable catalog entry reconciled
// from a supplier product. It is the aggregate root for catalog writes;
// ExternalID is the idempotency key for upserts.
type Product struct {
	shared.BaseEntity
	ExternalID     string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Slug           string          `gorm:"type:varchar(255);not null;index"`
	Description    string          `gorm:"type:text"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Images         ImageList       `gorm:"type:jsonb"`
	SupplierPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProcessorFee   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CompareAtPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MarginDollars  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MarginPercent  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	StockCount     int             `gorm:"not null;default:0"`
	Warehouse      Warehouse       `gorm:"type:varchar(2);not null;default:'CN'"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	LastSyncedAt   time.Time
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "catalog_products"
}

// NewProduct creates a catalog product from a supplier item
func NewProduct(externalID, name string) (*Product, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Name:       name,
		Slug:       Slugify(name),
		Images:     ImageList{},
		Status:     ProductStatusPending,
		Warehouse:  WarehouseCN,
	}, nil
}

// Rename updates the display name and regenerates the slug
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Slug = Slugify(name)
	p.Touch()
	return nil
}

// SetImages replaces the image list, de-duplicating while preserving order
func (p *Product) SetImages(urls []string) {
	seen := make(map[string]struct{}, len(urls))
	images := make(ImageList, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		images = append(images, u)
	}
	p.Images = images
	p.Touch()
}

// SetCategory assigns the product to a catalog category (nil = uncategorized)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// SetWarehouse records the fulfillment origin classification
func (p *Product) SetWarehouse(w Warehouse) {
	p.Warehouse = w
	p.Touch()
}

// SetStock records the synced stock count
func (p *Product) SetStock(count int) {
	if count < 0 {
		count = 0
	}
	p.StockCount = count
	p.Touch()
}

// ApplyPricing copies a pricing result onto the product's cost fields and
// activates or hides it accordingly. A non-viable result always hides the
// product, overriding any manual status.
func (p *Product) ApplyPricing(result pricing.Result) {
	p.SupplierPrice = result.SupplierPrice
	p.ShippingCost = result.ShippingCost
	p.ProcessorFee = result.ProcessorFee
	p.TotalCost = result.TotalCost
	p.RetailPrice = result.RetailPrice
	p.CompareAtPrice = result.CompareAtPrice
	p.MarginDollars = result.MarginDollars
	p.MarginPercent = result.MarginPercent

	if !result.IsViable {
		p.Status = ProductStatusHidden
	} else if p.RetailPrice.IsPositive() {
		p.Status = ProductStatusActive
	}
	p.Touch()
}

// MarkSynced records the completion of a sync pass over this product
func (p *Product) MarkSynced(at time.Time) {
	p.LastSyncedAt = at
	p.Touch()
}

// Activate makes the product visible. Active products must carry a
// positive retail price.
func (p *Product) Activate() error {
	if !p.RetailPrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Cannot activate a product without a positive retail price")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Hide removes the product from the storefront without deleting it
func (p *Product) Hide() {
	p.Status = ProductStatusHidden
	p.Touch()
}

// IsActive returns true if the product is visible in the storefront
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsHidden returns true if the product is hidden
func (p *Product) IsHidden() bool {
	return p.Status == ProductStatusHidden
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// ParseWarehouse parses a warehouse code, defaulting to CN for unknown values
func ParseWarehouse(code string) Warehouse {
	switch code {
	case "US", "us":
		return WarehouseUS
	case "CA", "ca":
		return WarehouseCA
	default:
		return WarehouseCN
	}
}
