package catalog

import (
	"github.com/dropship/backend/internal/domain/shared"
)

// Category is a storefront catalog category products are classified into
type Category struct {
	shared.BaseEntity
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "catalog_categories"
}

// NewCategory creates a new catalog category
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Slug:       Slugify(name),
		Name:       name,
	}, nil
}
