package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"storefront/models"
)

// warmConcurrency bounds parallel image fetches while warming
const warmConcurrency = 4

// WarmService fills the image cache for every product image ahead of requests
// Implements WarmServiceInterface
type WarmService struct {
	cache  *ImageCache
	images ImageServiceInterface
}

// NewWarmService creates a new WarmService
func NewWarmService(cache *ImageCache, images ImageServiceInterface) *WarmService {
	return &WarmService{
		cache:  cache,
		images: images,
	}
}

// Ensure WarmService implements WarmServiceInterface
var _ WarmServiceInterface = (*WarmService)(nil)

// WarmImages optimizes and caches every image of products in each size.
// Variants already cached are skipped; individual failures are collected in
// the result rather than aborting the run.
func (s *WarmService) WarmImages(ctx context.Context, products []models.Product, sizes []string) (models.WarmResult, error) {
	if len(sizes) == 0 {
		sizes = []string{ImageSizeThumb, ImageSizeMedium}
	}
	seenSizes := make(map[string]bool, len(sizes))
	var variants []string
	for _, size := range sizes {
		size = NormalizeImageSize(size)
		if !seenSizes[size] {
			seenSizes[size] = true
			variants = append(variants, size)
		}
	}

	log.Printf("📥 Warming image cache: %d products, sizes=%v", len(products), variants)

	var (
		mu     sync.Mutex
		result = models.WarmResult{Errors: []string{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, p := range products {
		for index := range p.AllImages() {
			for _, size := range variants {
				result.Total++
				if s.cache.Has(s.cache.Path(p.ID, index, size)) {
					log.Printf("⏭️  Skipping product %d image %d (%s): already cached", p.ID, index, size)
					result.Skipped++
					continue
				}

				p, index, size := p, index, size
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					_, err := s.images.ProductImage(gctx, p, index, size)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						msg := fmt.Sprintf("product %d image %d (%s): %v", p.ID, index, size, err)
						log.Printf("❌ %s", msg)
						result.Errors = append(result.Errors, msg)
						return nil
					}
					result.Generated++
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		result.Failed = len(result.Errors)
		return result, fmt.Errorf("image warm-up interrupted: %w", err)
	}

	result.Failed = len(result.Errors)
	log.Printf("🎉 Warm-up completed: %d generated, %d skipped, %d failed out of %d total",
		result.Generated, result.Skipped, len(result.Errors), result.Total)
	return result, nil
}
