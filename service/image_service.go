package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront/models"
)

const drivePrefix = "drive://"

// maxImageBytes bounds a single downloaded image
const maxImageBytes = 20 << 20

// ImageService resolves product image references, optimizes them and caches
// the result. References may be http(s) URLs, drive://<fileId>, or paths
// relative to the assets directory.
type ImageService struct {
	cache      *ImageCache
	drive      DriveServiceInterface // nil when Drive is not configured
	httpClient *http.Client
	assetsDir  string
}

// NewImageService creates a new ImageService. drive may be nil.
func NewImageService(cache *ImageCache, drive DriveServiceInterface, assetsDir string) *ImageService {
	return &ImageService{
		cache:      cache,
		drive:      drive,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		assetsDir:  assetsDir,
	}
}

// Ensure ImageService implements ImageServiceInterface
var _ ImageServiceInterface = (*ImageService)(nil)

// ProductImage returns the optimized image, serving from cache when possible
func (s *ImageService) ProductImage(ctx context.Context, product models.Product, index int, size string) ([]byte, error) {
	refs := product.AllImages()
	if index < 0 || index >= len(refs) {
		return nil, fmt.Errorf("%w: product %d has no image %d", models.ErrInvalidInput, product.ID, index)
	}
	size = NormalizeImageSize(size)

	cachePath := s.cache.Path(product.ID, index, size)
	if data, ok := s.cache.Read(cachePath); ok {
		log.Printf("📦 Image cache hit: %s", cachePath)
		return data, nil
	}

	raw, err := s.Fetch(ctx, refs[index])
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(cachePath, optimized); err != nil {
		// Serving still works without the cache
		log.Printf("⚠️  Warning: Failed to cache image for product %d: %v", product.ID, err)
	}
	return optimized, nil
}

// Fetch returns the raw bytes behind an image reference
func (s *ImageService) Fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, drivePrefix):
		if s.drive == nil {
			return nil, fmt.Errorf("image %s needs Google Drive, which is not configured", ref)
		}
		return s.drive.DownloadFile(ctx, strings.TrimPrefix(ref, drivePrefix))

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return s.fetchHTTP(ctx, ref)

	default:
		path := filepath.Join(s.assetsDir, filepath.Clean("/"+ref))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", ref, err)
		}
		return data, nil
	}
}

func (s *ImageService) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}
