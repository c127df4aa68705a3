package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropship/backend/internal/domain/shared"
)

// ProductRepository defines the interface for catalog product persistence.
// Upserts are keyed on ExternalID so repeated syncs are idempotent.
type ProductRepository interface {
	// FindByID finds a product by its internal ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByExternalID finds a product by its supplier product ID
	FindByExternalID(ctx context.Context, externalID string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by status
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)

	// Upsert creates the product or updates the existing row with the
	// same external ID. Returns true when a new row was created.
	Upsert(ctx context.Context, product *Product) (created bool, err error)

	// Save persists changes to an existing product
	Save(ctx context.Context, product *Product) error

	// DeleteSynced deletes every product carrying a non-empty external ID
	// and returns the number of rows removed. Used by resync.
	DeleteSynced(ctx context.Context) (int64, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// VariantRepository defines the interface for catalog variant persistence.
// Upserts are keyed on ExternalVariantID with merge-on-conflict semantics.
type VariantRepository interface {
	// FindByProductID finds all variants belonging to a product
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]Variant, error)

	// FindByExternalID finds a variant by its supplier variant ID
	FindByExternalID(ctx context.Context, externalVariantID string) (*Variant, error)

	// Upsert creates the variant or merges onto the existing row with the
	// same external variant ID
	Upsert(ctx context.Context, variant *Variant) error

	// DeleteByProductID deletes all variants of a product
	DeleteByProductID(ctx context.Context, productID uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns all categories ordered by sort order
	FindAll(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
