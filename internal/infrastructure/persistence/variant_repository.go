package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
)

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByProductID finds all variants belonging to a product
func (r *GormVariantRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("name asc").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindByExternalID finds a variant by its supplier variant ID
func (r *GormVariantRepository) FindByExternalID(ctx context.Context, externalVariantID string) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		Where("external_variant_id = ?", externalVariantID).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// Upsert creates the variant or merges the synced columns onto the row
// carrying the same external variant ID
func (r *GormVariantRepository) Upsert(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_id", "name", "color", "size",
				"price", "image", "stock", "active", "updated_at",
			}),
		}).
		Create(variant).Error
}

// DeleteByProductID deletes all variants of a product
func (r *GormVariantRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&catalog.Variant{}).Error
}
