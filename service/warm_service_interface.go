package service

import (
	"context"

	"storefront/models"
)

// WarmServiceInterface defines the contract for bulk image cache warming
type WarmServiceInterface interface {
	WarmImages(ctx context.Context, products []models.Product, sizes []string) (models.WarmResult, error)
}
