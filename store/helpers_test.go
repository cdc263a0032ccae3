package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/repository"
)

func floatPtr(v float64) *float64 { return &v }

func product(id int, name, price, category, brand string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Brand:    brand,
	}
}

// scenarioCatalog is the two-product catalog used across store tests
func scenarioCatalog() []models.Product {
	return []models.Product{
		product(1, "A", "10", "x", "b1"),
		product(2, "B", "5", "y", "b2"),
	}
}

// fakeCatalogRepository returns fixed products or a fixed error
type fakeCatalogRepository struct {
	products []models.Product
	err      error
	calls    int
}

func (f *fakeCatalogRepository) LoadProducts(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.products, f.err
}

var _ repository.CatalogRepositoryInterface = (*fakeCatalogRepository)(nil)

var errStorageDown = errors.New("storage unavailable")

// failingStorage fails every operation
type failingStorage struct{}

func (failingStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return "", false, errStorageDown
}
func (failingStorage) SetItem(ctx context.Context, key, value string) error { return errStorageDown }
func (failingStorage) RemoveItem(ctx context.Context, key string) error     { return errStorageDown }
func (failingStorage) Close() error                                         { return nil }
