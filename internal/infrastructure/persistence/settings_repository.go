package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shipping"
)

// Setting keys for the typed configuration payloads
const (
	settingKeyPricing  = "pricing_config"
	settingKeyShipping = "shipping_config"
)

// Setting is a named JSON configuration payload
type Setting struct {
	Key       string `gorm:"type:varchar(64);primaryKey"`
	Value     string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// GormSettingsRepository stores typed configuration as JSONB rows keyed
// by name. It implements both pricing.ConfigStore and
// shipping.ConfigStore.
type GormSettingsRepository struct {
	db *gorm.DB
}

var (
	_ pricing.ConfigStore  = (*GormSettingsRepository)(nil)
	_ shipping.ConfigStore = (*GormSettingsRepository)(nil)
)

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// LoadPricingConfig loads the stored pricing configuration
func (r *GormSettingsRepository) LoadPricingConfig(ctx context.Context) (*pricing.Config, error) {
	var cfg pricing.Config
	if err := r.load(ctx, settingKeyPricing, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SavePricingConfig persists the pricing configuration
func (r *GormSettingsRepository) SavePricingConfig(ctx context.Context, cfg *pricing.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return r.save(ctx, settingKeyPricing, cfg)
}

// LoadShippingConfig loads the stored shipping configuration
func (r *GormSettingsRepository) LoadShippingConfig(ctx context.Context) (*shipping.Config, error) {
	var cfg shipping.Config
	if err := r.load(ctx, settingKeyShipping, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveShippingConfig persists the shipping configuration
func (r *GormSettingsRepository) SaveShippingConfig(ctx context.Context, cfg *shipping.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return r.save(ctx, settingKeyShipping, cfg)
}

func (r *GormSettingsRepository) load(ctx context.Context, key string, out any) error {
	var setting Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(setting.Value), out)
}

func (r *GormSettingsRepository) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&Setting{Key: key, Value: string(payload), UpdatedAt: time.Now()}).Error
}
