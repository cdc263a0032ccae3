package repository

import (
	"context"

	"storefront/models"
)

// StorageInterface defines the contract for on-device key/value persistence.
// It mirrors browser localStorage: string values under string keys.
type StorageInterface interface {
	// GetItem returns the stored value and whether the key exists
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// CatalogSourceInterface defines the contract for reading the raw catalog document
type CatalogSourceInterface interface {
	// Name identifies the source in logs and error messages
	Name() string
	// Format returns "json" or "yaml"
	Format() string
	Read(ctx context.Context) ([]byte, error)
}

// CatalogRepositoryInterface defines the contract for loading the product catalog
type CatalogRepositoryInterface interface {
	LoadProducts(ctx context.Context) ([]models.Product, error)
}
