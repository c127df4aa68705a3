package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/shared"
)

// Variant is a purchasable variation of a catalog product, keyed by the
// supplier's external variant ID for idempotent upserts.
type Variant struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalVariantID string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(255);not null"`
	Color             *string         `gorm:"type:varchar(100)"`
	Size              *string         `gorm:"type:varchar(100)"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Image             string          `gorm:"type:text"`
	Stock             int             `gorm:"not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "catalog_variants"
}

// NewVariant creates a variant for a catalog product
func NewVariant(productID uuid.UUID, externalVariantID, name string) (*Variant, error) {
	if externalVariantID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_VARIANT_ID", "External variant ID cannot be empty")
	}

	color, size := ParseVariantOptions(name)
	return &Variant{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		ExternalVariantID: externalVariantID,
		Name:              name,
		Color:             color,
		Size:              size,
		Active:            true,
	}, nil
}

// SetPrice updates the variant selling price
func (v *Variant) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	v.Price = price
	v.Touch()
	return nil
}

// SetStock records the synced stock level
func (v *Variant) SetStock(count int) {
	if count < 0 {
		count = 0
	}
	v.Stock = count
	v.Touch()
}

// Deactivate removes the variant from sale
func (v *Variant) Deactivate() {
	v.Active = false
	v.Touch()
}

// ParseVariantOptions splits a supplier variant name of the form
// "Color-Size" into its options. Either side may be absent; unknown
// shapes yield nil for both.
func ParseVariantOptions(name string) (color *string, size *string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	parts := strings.SplitN(name, "-", 2)
	first := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		if first == "" {
			return nil, nil
		}
		// Single token: sizes are short alphanumeric codes, colors are words
		if looksLikeSize(first) {
			return nil, &first
		}
		return &first, nil
	}

	second := strings.TrimSpace(parts[1])
	if first != "" {
		color = &first
	}
	if second != "" {
		size = &second
	}
	return color, size
}

// looksLikeSize reports whether a token resembles a garment size code
func looksLikeSize(s string) bool {
	switch strings.ToUpper(s) {
	case "XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL", "2XL", "3XL", "4XL", "5XL":
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
