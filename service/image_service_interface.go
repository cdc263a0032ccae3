package service

import (
	"context"

	"storefront/models"
)

// ImageServiceInterface defines the contract for product image delivery
type ImageServiceInterface interface {
	// ProductImage returns the optimized JPEG for the index-th image of product
	ProductImage(ctx context.Context, product models.Product, index int, size string) ([]byte, error)
}
