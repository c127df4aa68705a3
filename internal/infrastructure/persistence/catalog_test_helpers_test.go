package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCatalogTestDB creates an in-memory SQLite database with the
// catalog schema
func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE catalog_products (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			external_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT,
			category_id TEXT,
			images TEXT,
			supplier_price NUMERIC NOT NULL DEFAULT 0,
			shipping_cost NUMERIC NOT NULL DEFAULT 0,
			processor_fee NUMERIC NOT NULL DEFAULT 0,
			total_cost NUMERIC NOT NULL DEFAULT 0,
			retail_price NUMERIC NOT NULL DEFAULT 0,
			compare_at_price NUMERIC NOT NULL DEFAULT 0,
			margin_dollars NUMERIC NOT NULL DEFAULT 0,
			margin_percent NUMERIC NOT NULL DEFAULT 0,
			stock_count INTEGER NOT NULL DEFAULT 0,
			warehouse TEXT NOT NULL DEFAULT 'CN',
			status TEXT NOT NULL DEFAULT 'pending',
			last_synced_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE catalog_variants (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			product_id TEXT NOT NULL,
			external_variant_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			color TEXT,
			size TEXT,
			price NUMERIC NOT NULL DEFAULT 0,
			image TEXT,
			stock INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE catalog_categories (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}
